package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestNewAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := uuid.NewString()

	tok, exp, err := NewAccessToken(secret, sub, "alice", now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := AccessClaimsFromToken(tok, secret, func() time.Time { return now.Add(time.Minute) })
	require.NoError(t, err)
	assert.Equal(t, sub, claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, now, claims.IssuedAt.Time.UTC())
	assert.Equal(t, exp, claims.ExpiresAt.Time.UTC())
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	valid, _, err := NewAccessToken(secret, uuid.NewString(), "alice", now, time.Hour)
	require.NoError(t, err)

	expired, _, err := NewAccessToken(secret, uuid.NewString(), "alice", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uuid.NewString()},
	}).SignedString(secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	other, _, err := NewAccessToken(secret, uuid.NewString(), "mallory", now, time.Hour)
	require.NoError(t, err)
	vp, op := strings.Split(valid, "."), strings.Split(other, ".")
	tampered := strings.Join([]string{vp[0], op[1], vp[2]}, ".")

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"garbage", "not.a.jwt", secret},
		{"empty", "", secret},
		{"wrong secret", valid, []byte("other-secret")},
		{"tampered payload", tampered, secret},
		{"expired", expired, secret},
		{"missing exp", noExp, secret},
		{"wrong algorithm", hs512, secret},
		{"alg none", unsigned, secret},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := AccessClaimsFromToken(tc.token, tc.secret, nil)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestEmptySecret(t *testing.T) {
	t.Parallel()

	_, _, err := NewAccessToken(nil, "sub", "alice", time.Now(), time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = AccessClaimsFromToken("x", nil, nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
