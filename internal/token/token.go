package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers structural, signature, and expiry failures.
	// Callers must not be able to tell them apart.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedToken reports a verified token whose subject claim is
	// missing or empty.
	ErrMalformedToken = errors.New("malformed token claims")
)

// Codec issues and verifies the signed session credential. Signing
// secret, algorithm, and TTL are process-wide configuration fixed at
// construction.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func NewCodec(secret, alg string, ttl time.Duration) (*Codec, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not a symmetric method", alg)
	}
	return &Codec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue signs a credential for the subject expiring after the
// configured TTL.
func (c *Codec) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Verify validates the credential and returns its subject.
func (c *Codec) Verify(credential string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		credential,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{c.method.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrMalformedToken
	}

	return claims.Subject, nil
}
