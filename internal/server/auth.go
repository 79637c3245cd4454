package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/groblegark/catalog/internal/model"
)

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Authenticator issues and verifies HMAC-signed bearer tokens.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator returns an Authenticator signing with the given secret.
// Tokens expire after ttl.
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the user's identity and role.
func (a *Authenticator) Issue(u *model.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  u.Email,
		"name": u.Name,
		"role": string(u.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(a.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the session
// identity it carries.
func (a *Authenticator) Verify(tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if email == "" || !role.IsValid() {
		return nil, ErrInvalidToken
	}

	return &model.Session{Token: tokenString, Email: email, Name: name, Role: role}, nil
}

// HashPassword returns the hex-encoded SHA-256 digest used for stored
// credentials.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// checkPassword compares a plaintext password against a stored hash in
// constant time.
func checkPassword(password, storedHash string) bool {
	hashed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(hashed), []byte(storedHash)) == 1
}
