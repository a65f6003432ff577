package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eoauman/sylman/internal/config"
	"github.com/eoauman/sylman/internal/users"
	"github.com/eoauman/sylman/pkg/middleware"
)

// GenerateAccessToken creates a signed JWT access token carrying the account
// id and role.
func GenerateAccessToken(cfg *config.Config, u *users.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":    u.ID,
		"userId": u.ID,
		"role":   u.Role,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// claimsToken exposes verified claims through the middleware Token interface.
type claimsToken struct {
	claims jwt.MapClaims
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Verifier validates HMAC-signed access tokens issued by this service. It
// satisfies middleware.Verifier.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a raw token string.
func (ver *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ver.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return &claimsToken{claims: claims}, nil
}
