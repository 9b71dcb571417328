package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/school-journal/journal/internal/domain/shared"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, clock *fakeClock) *JWTService {
	t.Helper()
	svc, err := NewJWTService(TokenConfig{Secret: "test-secret", TTL: 30 * time.Minute, Now: clock.Now})
	require.NoError(t, err)
	return svc
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, h.Compare(hash, "s3cret"))
	assert.Error(t, h.Compare(hash, "wrong"))
	assert.Error(t, h.Compare("not-a-hash", "s3cret"))

	_, err = h.Hash("")
	assert.ErrorIs(t, err, shared.ErrEmptyPassword)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, shared.ErrPasswordTooLong)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(100).cost)
}

func TestJWTService_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	tok, err := svc.Issue("teacher@school.kz")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, clock.now.Add(30*time.Minute), tok.ExpiresAt)

	email, err := svc.Parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "teacher@school.kz", email.String())
}

func TestJWTService_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(t, clock)

	tok, err := svc.Issue("teacher@school.kz")
	require.NoError(t, err)

	clock.now = clock.now.Add(29 * time.Minute)
	_, err = svc.Parse(tok.Value)
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	_, err = svc.Parse(tok.Value)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.Equal(t, "Could not validate credentials", shared.MessageOf(err))
}

func TestJWTService_RejectsTamperedAndForeignTokens(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestService(t, clock)

	tok, err := svc.Issue("teacher@school.kz")
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = svc.Parse(tampered)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	other, err := NewJWTService(TokenConfig{Secret: "other-secret", Now: clock.Now})
	require.NoError(t, err)
	foreign, err := other.Issue("teacher@school.kz")
	require.NoError(t, err)
	_, err = svc.Parse(foreign.Value)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.Parse("garbage")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestJWTService_RejectsMissingSubjectAndNoneAlg(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestService(t, clock)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(clock.now),
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Minute)),
	}}
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Parse(noSub)
	assert.ErrorIs(t, err, shared.ErrCouldNotValidate)

	claims.Subject = "teacher@school.kz"
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Parse(none)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	noExp := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "teacher@school.kz"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExp).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Parse(tok)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(TokenConfig{})
	assert.Error(t, err)
}
