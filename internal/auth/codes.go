package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// ErrCodeMismatch is returned when a sign-in code is missing, expired or wrong.
var ErrCodeMismatch = errors.New("invalid or expired code")

const codeKeyPrefix = "authcode:"

// CodeStore issues and verifies one-time sign-in codes. Only a bcrypt hash
// of the code is kept in Redis, under a TTL; verification consumes the code.
type CodeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCodeStore creates a code store with the given code lifetime.
func NewCodeStore(rdb *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{rdb: rdb, ttl: ttl}
}

// Issue generates a 6-digit code for the email and stores its hash,
// replacing any previously issued code.
func (s *CodeStore) Issue(ctx context.Context, email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	if err := s.rdb.Set(ctx, codeKeyPrefix+email, string(hash), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

// Verify checks a code against the stored hash and deletes it on success
// so each code is single use.
func (s *CodeStore) Verify(ctx context.Context, email, code string) error {
	key := codeKeyPrefix + email
	hash, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeMismatch
		}
		return fmt.Errorf("read code: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeMismatch
	}
	_ = s.rdb.Del(ctx, key).Err()
	return nil
}
