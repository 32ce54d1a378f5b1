package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"roadside/pkg/apperr"
	"roadside/pkg/models"
)

type Claims struct {
	Sub   string `json:"sub"`
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and validates the HS256 session tokens carried in the
// session cookie or the Authorization header.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		Sub:   user.ID,
		Role:  string(user.Role),
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates tokenStr and returns the actor it was issued for.
func (t *Tokens) Parse(tokenStr string) (models.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return models.Actor{}, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return models.Actor{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthenticated)
	}

	role := models.Role(c.Role)
	if c.Sub == "" || !role.Valid() {
		return models.Actor{}, fmt.Errorf("%w: malformed claims", apperr.ErrUnauthenticated)
	}
	return models.Actor{ID: c.Sub, Role: role}, nil
}
