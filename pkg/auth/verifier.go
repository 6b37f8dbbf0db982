package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates a JWT token string and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// VerifierConfig configures token verification. Exactly one of Secret or
// JWKSURL selects the scheme: HMAC for shared-secret deployments, JWKS for
// an external identity provider signing with RSA.
type VerifierConfig struct {
	Secret  string
	JWKSURL string
}

// NewVerifier creates a token verifier from the configuration.
func NewVerifier(cfg *VerifierConfig) (TokenVerifier, error) {
	switch {
	case cfg.Secret != "" && cfg.JWKSURL != "":
		return nil, fmt.Errorf("configure either a JWT secret or a JWKS URL, not both")
	case cfg.Secret != "":
		return &hmacVerifier{secret: []byte(cfg.Secret)}, nil
	case cfg.JWKSURL != "":
		jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{cfg.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("create JWKS client for %s: %w", cfg.JWKSURL, err)
		}
		return &jwksVerifier{jwks: jwks}, nil
	default:
		return nil, fmt.Errorf("no JWT secret or JWKS URL configured")
	}
}

type hmacVerifier struct {
	secret []byte
}

func (v *hmacVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return claimsFromToken(token)
}

type jwksVerifier struct {
	jwks keyfunc.Keyfunc
}

func (v *jwksVerifier) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.jwks.KeyfuncCtx(context.Background())(token)
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	return claimsFromToken(token)
}

func claimsFromToken(token *jwt.Token) (*Claims, error) {
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
