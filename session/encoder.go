package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const sessionFormatVersionV1 = 1

func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(sessionFormatVersionV1)

	if len(s.CaseID) > 255 {
		return nil, errors.New("caseID too long")
	}
	buf.WriteByte(byte(len(s.CaseID)))
	buf.WriteString(s.CaseID)

	if len(s.CaseNumber) > 255 {
		return nil, errors.New("caseNumber too long")
	}
	buf.WriteByte(byte(len(s.CaseNumber)))
	buf.WriteString(s.CaseNumber)

	if err := binary.Write(&buf, binary.BigEndian, s.IssuedAt); err != nil {
		return nil, err
	}

	if err := binary.Write(&buf, binary.BigEndian, s.LastSeenAt); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != sessionFormatVersionV1 {
		return nil, errors.New("invalid session version")
	}

	s := &Session{}

	caseLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	caseID := make([]byte, caseLen)
	if _, err := io.ReadFull(reader, caseID); err != nil {
		return nil, err
	}
	s.CaseID = string(caseID)

	numberLen, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	caseNumber := make([]byte, numberLen)
	if _, err := io.ReadFull(reader, caseNumber); err != nil {
		return nil, err
	}
	s.CaseNumber = string(caseNumber)

	if err := binary.Read(reader, binary.BigEndian, &s.IssuedAt); err != nil {
		return nil, err
	}

	if err := binary.Read(reader, binary.BigEndian, &s.LastSeenAt); err != nil {
		return nil, err
	}

	return s, nil
}
