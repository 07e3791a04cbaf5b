package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// ErrMissingSubject is returned when an identity has no unique identifier.
var ErrMissingSubject = errors.New("identity has no email or subject")

// IDTokenClaims are the OpenID Connect claims read from a provider ID token.
type IDTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Identity maps the claims to an identity. The email is the unique id,
// falling back to the subject when the provider did not release one.
func (c *IDTokenClaims) Identity() (domain.Identity, error) {
	id := c.Email
	if id == "" {
		id = c.Subject
	}
	if id == "" {
		return domain.Identity{}, ErrMissingSubject
	}
	return domain.Identity{ID: id, DisplayName: c.Name}, nil
}

// ParseIDToken verifies raw with keyFunc and returns the identity it carries.
func ParseIDToken(raw string, keyFunc jwt.Keyfunc, opts ...jwt.ParserOption) (domain.Identity, error) {
	claims := &IDTokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, keyFunc, opts...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("parsing id token: %w", err)
	}
	if !token.Valid {
		return domain.Identity{}, errors.New("parsing id token: token is not valid")
	}
	return claims.Identity()
}

// HMACKey returns a Keyfunc accepting only HMAC-signed tokens made with secret.
// It is meant for development tokens minted by IssueDevToken.
func HMACKey(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}
}

// IssueDevToken mints an HS256 ID token for who, valid for ttl.
func IssueDevToken(who domain.Identity, secret []byte, ttl time.Duration) (string, error) {
	if who.ID == "" {
		return "", ErrMissingSubject
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, IDTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   who.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: who.ID,
		Name:  who.DisplayName,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing id token: %w", err)
	}
	return signed, nil
}

// SignInWithToken verifies raw and signs m in with the identity it carries.
func (m *Manager) SignInWithToken(raw string, keyFunc jwt.Keyfunc) error {
	who, err := ParseIDToken(raw, keyFunc)
	if err != nil {
		return err
	}
	return m.SignIn(who)
}
