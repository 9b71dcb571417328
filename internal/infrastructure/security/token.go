package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// TokenType is returned to clients alongside the access token.
const TokenType = "bearer"

// Claims are the JWT claims of an access token. Subject carries the teacher email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenConfig configures a JWTService.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

var _ teacher.TokenService = (*JWTService)(nil)

// NewJWTService creates a token service. The secret must not be empty.
func NewJWTService(cfg TokenConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    now,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Issue signs a token for email valid for the configured TTL.
func (s *JWTService) Issue(email teacher.Email) (teacher.AccessToken, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return teacher.AccessToken{}, err
	}

	return teacher.AccessToken{
		Value:     signed,
		TokenType: TokenType,
		ExpiresAt: exp,
	}, nil
}

// Parse verifies the signature, algorithm and expiry and returns the subject.
// Every failure is reported as ErrUnauthorized with the cause attached.
func (s *JWTService) Parse(token string) (teacher.Email, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", shared.WrapError("teacher", "ValidateToken", shared.ErrUnauthorized, "Could not validate credentials", err)
	}

	if claims.Subject == "" {
		return "", shared.ErrCouldNotValidate
	}

	return teacher.NormalizeEmail(claims.Subject), nil
}
