package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type TokenPurpose string

const (
	PurposeVerifyEmail   TokenPurpose = "verify"
	PurposeResetPassword TokenPurpose = "reset"

	VerifyTokenTTL = 24 * time.Hour
	ResetTokenTTL  = time.Hour
)

var ErrTokenNotFound = errors.New("token not found or expired")

//go:generate mockgen -source=auth_token_store.go -destination=mock/auth_token_store_mock.go -package=mock

// TokenStore keeps single-use tokens that map to a user id.
type TokenStore interface {
	Issue(ctx context.Context, purpose TokenPurpose, userID int64, ttl time.Duration) (string, error)
	Consume(ctx context.Context, purpose TokenPurpose, token string) (int64, error)
}

type redisTokenStore struct {
	rdb *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) TokenStore {
	return &redisTokenStore{rdb: rdb}
}

func TokenKey(purpose TokenPurpose, token string) string {
	return fmt.Sprintf("auth:%s:%s", purpose, token)
}

func (s *redisTokenStore) Issue(ctx context.Context, purpose TokenPurpose, userID int64, ttl time.Duration) (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.rdb.Set(ctx, TokenKey(purpose, token), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return "", fmt.Errorf("store %s token: %w", purpose, err)
	}
	return token, nil
}

// Consume deletes the token as it reads it, so a token works once.
func (s *redisTokenStore) Consume(ctx context.Context, purpose TokenPurpose, token string) (int64, error) {
	val, err := s.rdb.GetDel(ctx, TokenKey(purpose, token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("consume %s token: %w", purpose, err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrTokenNotFound
	}
	return userID, nil
}
