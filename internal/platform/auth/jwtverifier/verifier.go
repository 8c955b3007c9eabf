package jwtverifier

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config configures HS256 verification.
type Config struct {
	Secret    []byte
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// Claims is the token payload the API reads.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Email   string
}

type Verifier struct {
	cfg   Config
	clock Clock
}

func New(cfg Config) *Verifier {
	return NewWithClock(cfg, nil)
}

func NewWithClock(cfg Config, clock Clock) *Verifier {
	if clock == nil {
		clock = realClock{}
	}
	return &Verifier{cfg: cfg, clock: clock}
}

// Verify checks the HS256 signature, iss, aud, exp (required) and nbf, and returns the caller.
func (v *Verifier) Verify(ctx context.Context, token string) (Principal, error) {
	_ = ctx
	if len(v.cfg.Secret) == 0 || token == "" {
		return Principal{}, ErrUnauthorized
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.cfg.Issuer),
		jwt.WithAudience(v.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.cfg.ClockSkew),
		jwt.WithTimeFunc(v.clock.Now),
	)
	var claims Claims
	tok, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.cfg.Secret, nil
	})
	if err != nil || !tok.Valid {
		return Principal{}, ErrUnauthorized
	}
	if claims.Subject == "" {
		return Principal{}, ErrUnauthorized
	}
	return Principal{Subject: claims.Subject, Email: claims.Email}, nil
}

// Mint signs an HS256 token for sub valid for ttl from now.
func Mint(cfg Config, sub, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   sub,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}
