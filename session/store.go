package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authorization layer.
var ErrRedisUnavailable = errors.New("redis unavailable")

const deleteSessionScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var deleteSessionLua = redis.NewScript(deleteSessionScript)

// Store is a Redis-backed session store that handles persistence, idle-window
// expiration, and refresh-on-use renewal.
//
// Expiry is enforced twice: by the Redis TTL and by a lazy last-seen check on
// read, so a key that outlives its window because of TTL drift is still
// rejected and purged.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) key(tokenID string) string {
	return s.prefix + ":" + tokenID
}

func (s *Store) caseKey(caseID string) string {
	return s.prefix + "c:" + caseID
}

// Save persists a [Session] to Redis with the idle-window TTL and indexes it
// under its case.
func (s *Store) Save(ctx context.Context, sess *Session, idle time.Duration) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	sessionKey := s.key(sess.TokenID)
	caseKey := s.caseKey(sess.CaseID)

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey, data, idle)
		pipe.SAdd(ctx, caseKey, sess.TokenID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a session by token ID. A session whose last-seen timestamp is
// older than the idle window is purged and reported as missing. Returns
// redis.Nil when the session does not exist.
func (s *Store) Get(ctx context.Context, tokenID string, idle time.Duration) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.TokenID = tokenID

	if time.UnixMilli(sess.LastSeenAt).Add(idle).Before(time.Now()) {
		if _, err := s.Delete(ctx, tokenID); err != nil {
			return nil, err
		}
		return nil, redis.Nil
	}

	return sess, nil
}

// Touch records activity on a session: updates its last-seen timestamp and
// restarts the idle-window TTL.
func (s *Store) Touch(ctx context.Context, sess *Session, idle time.Duration) error {
	sess.LastSeenAt = time.Now().UnixMilli()

	data, err := Encode(sess)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(sess.TokenID), data, idle).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Delete removes a session and its case-index entry. Deleting a session that
// does not exist is a no-op; the returned bool reports whether a session was
// actually destroyed.
func (s *Store) Delete(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.redis.Get(ctx, s.key(tokenID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		return false, err
	}

	keys := []string{s.key(tokenID), s.caseKey(sess.CaseID)}
	existed, err := deleteSessionLua.Run(ctx, s.redis, keys, tokenID).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return existed == 1, nil
}

// DeleteAllForCase removes every session bound to a case.
//
// ATOMICITY NOTE: this operation is NOT fully atomic. It reads the case's
// session set, then deletes the members and the set in a transaction. A
// session created between the read and the delete phases survives. The Guard
// tolerates this: the surviving session still fails the per-request active
// check against the case record.
func (s *Store) DeleteAllForCase(ctx context.Context, caseID string) error {
	caseKey := s.caseKey(caseID)

	tokenIDs, err := s.redis.SMembers(ctx, caseKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tokenID := range tokenIDs {
			pipe.Del(ctx, s.key(tokenID))
		}
		pipe.Del(ctx, caseKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// ActiveSessionCount returns the number of indexed sessions for a case. The
// index may briefly overcount sessions that expired but were not yet read.
func (s *Store) ActiveSessionCount(ctx context.Context, caseID string) (int, error) {
	count, err := s.redis.SCard(ctx, s.caseKey(caseID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return int(count), nil
}
