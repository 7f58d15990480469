package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"math/big"
	"strings"
)

type TokenID [16]byte

const caseNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func NewTokenID() (TokenID, error) {
	var tid TokenID
	_, err := rand.Read(tid[:])
	return tid, err
}

func (t TokenID) Bytes() []byte {
	return t[:]
}

func (t TokenID) String() string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(t[:])
}

func ParseTokenID(tokenID string) (TokenID, error) {
	var tid TokenID

	raw, err := base64.RawURLEncoding.DecodeString(tokenID)
	if err != nil {
		return tid, err
	}
	if len(raw) != len(tid) {
		return tid, errors.New("invalid token id size")
	}

	copy(tid[:], raw)
	return tid, nil
}

// NewCaseNumberSuffix draws length characters from [0-9A-Z] using
// crypto/rand. The caller prepends the public prefix.
func NewCaseNumberSuffix(length int) (string, error) {
	if length < 1 || length > 16 {
		return "", errors.New("invalid case number suffix length")
	}

	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(caseNumberAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(caseNumberAlphabet[n.Int64()])
	}

	return b.String(), nil
}
