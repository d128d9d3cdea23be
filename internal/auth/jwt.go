package auth

import (
	"errors"
	"time"

	"screening-backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier checks HS256 access tokens signed with the Supabase project's JWT secret.
type Verifier struct {
	secret   []byte
	audience string
}

func NewVerifier(cfg config.AuthConfig) (*Verifier, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("SUPABASE_JWT_SECRET is required")
	}
	return &Verifier{secret: []byte(cfg.JWTSecret), audience: cfg.JWTAudience}, nil
}

/* ===================== VERIFY TOKEN ===================== */

func (v *Verifier) Verify(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	if claims.Subject == "" {
		return Claims{}, errors.New("sub missing")
	}
	if claims.Role == "" {
		return Claims{}, errors.New("role missing")
	}
	return claims, nil
}

/* ===================== ISSUE TOKEN ===================== */

// Issue signs a token the Verifier accepts. Used for service tokens minted by
// the ops CLI; user tokens come from Supabase Auth.
func (v *Verifier) Issue(now time.Time, subject, role string, ttl time.Duration) (string, error) {
	if subject == "" || role == "" {
		return "", errors.New("subject and role are required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be > 0")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  audienceOrNil(v.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role: role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
