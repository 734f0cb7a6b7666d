package auth_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/auth"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenStore_Issue(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	store := auth.NewRedisTokenStore(rdb)

	mock.Regexp().ExpectSet(`^auth:verify:[0-9a-f]{32}$`, "7", auth.VerifyTokenTTL).SetVal("OK")

	token, err := store.Issue(ctx, auth.PurposeVerifyEmail, 7, auth.VerifyTokenTTL)
	require.NoError(t, err)
	assert.Len(t, token, 32)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisTokenStore_Consume(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid token", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := auth.NewRedisTokenStore(rdb)
		mock.ExpectGetDel(auth.TokenKey(auth.PurposeResetPassword, "abc")).SetVal("42")

		userID, err := store.Consume(ctx, auth.PurposeResetPassword, "abc")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing or already used", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := auth.NewRedisTokenStore(rdb)
		mock.ExpectGetDel(auth.TokenKey(auth.PurposeVerifyEmail, "abc")).RedisNil()

		_, err := store.Consume(ctx, auth.PurposeVerifyEmail, "abc")
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("Purposes do not share tokens", func(t *testing.T) {
		assert.NotEqual(t,
			auth.TokenKey(auth.PurposeVerifyEmail, "abc"),
			auth.TokenKey(auth.PurposeResetPassword, "abc"))
	})

	t.Run("Redis failure", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		store := auth.NewRedisTokenStore(rdb)
		mock.ExpectGetDel(auth.TokenKey(auth.PurposeVerifyEmail, "abc")).SetErr(errors.New("connection refused"))

		_, err := store.Consume(ctx, auth.PurposeVerifyEmail, "abc")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrTokenNotFound)
	})
}
