package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier resolves an inbound bearer credential to a verified email
// address. The production implementation verifies JWTs issued by the
// external identity provider; tests substitute their own.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (email string, err error)
}

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by identity-provider tokens. Only the email claim is
// consumed; everything else rides in RegisteredClaims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Config struct {
	// PublicKey is a base64-encoded PEM RSA public key used to verify
	// identity tokens.
	PublicKey string
	Issuer    string
}

func ConfigFromEnv() Config {
	return Config{
		PublicKey: os.Getenv("AUTH_PUBLIC_KEY"),
		Issuer:    os.Getenv("AUTH_ISSUER"),
	}
}

// JWTVerifier verifies RS256 identity tokens against a fixed public key.
type JWTVerifier struct {
	key    *rsa.PublicKey
	issuer string
}

// NewJWTVerifier decodes the base64 PEM public key from cfg and returns a
// ready verifier.
func NewJWTVerifier(cfg Config) (*JWTVerifier, error) {
	if cfg.PublicKey == "" {
		return nil, errors.New("auth public key not configured")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(cfg.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("decode auth public key: %w", err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse auth public key: %w", err)
	}
	return &JWTVerifier{key: key, issuer: cfg.Issuer}, nil
}

// NewJWTVerifierWithKey builds a verifier from an in-memory key.
func NewJWTVerifierWithKey(key *rsa.PublicKey, issuer string) *JWTVerifier {
	return &JWTVerifier{key: key, issuer: issuer}
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
