package users

import (
	"fmt"
	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"time"
)

func HashPassword(s string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
	return string(b), err
}

func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

type Claims struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.StandardClaims
}

// Can reports whether the token holder may open section s.
func (c *Claims) Can(s Section) bool {
	return Allowed(c.Role, c.Permissions, s)
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	Secret   []byte
	Lifetime time.Duration
	now      func() time.Time
}

func NewTokens(secret string, lifetime time.Duration) *Tokens {
	return &Tokens{Secret: []byte(secret), Lifetime: lifetime, now: time.Now}
}

func (t *Tokens) Issue(u User) (string, time.Time, error) {
	now := time.Now()
	if t.now != nil {
		now = t.now()
	}
	exp := now.Add(t.Lifetime)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID:          u.ID,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID,
			ExpiresAt: exp.Unix(),
			IssuedAt:  now.Unix(),
		},
	})
	s, err := tok.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

func (t *Tokens) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
