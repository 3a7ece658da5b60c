package auth

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/event-hub/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	tm := NewTokenManager("secret", "event-hub", time.Hour)
	tok, exp, err := tm.Generate("u1", models.Role("Admin"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	c, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, models.RoleAdmin, c.Role)
	assert.NotEmpty(t, c.ID)
}

func TestParseExpired(t *testing.T) {
	tm := NewTokenManager("secret", "event-hub", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := tm.Generate("u1", models.RoleStandard)
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsForeignTokens(t *testing.T) {
	tm := NewTokenManager("secret", "event-hub", time.Hour)

	other := NewTokenManager("other-secret", "event-hub", time.Hour)
	tok, _, err := other.Generate("u1", models.RoleStandard)
	require.NoError(t, err)
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIss := NewTokenManager("secret", "someone-else", time.Hour)
	tok, _, err = wrongIss.Generate("u1", models.RoleStandard)
	require.NoError(t, err)
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// HS512 with the right key is still refused
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "event-hub"}})
	s, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.Parse(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", h)
	assert.NoError(t, VerifyPassword("hunter22", h))
	assert.Error(t, VerifyPassword("wrong", h))
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRevoker()
	now := time.Now()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "a", time.Minute))
	ok, _ := r.IsRevoked(ctx, "a")
	assert.True(t, ok)
	ok, _ = r.IsRevoked(ctx, "b")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = r.IsRevoked(ctx, "a")
	assert.False(t, ok)
}

func TestRedisRevoker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	r := NewRedisRevoker(rdb)
	jti := "test-" + time.Now().Format("150405.000000")
	require.NoError(t, r.Revoke(ctx, jti, time.Minute))
	ok, err := r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsRevoked(ctx, jti+"-missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
