package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the Fuze access token this program reads. The
// token is inspected without signature verification: only the server can
// verify it, and locally we need just the identity and the expiry.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry has passed. A token without an
// exp claim never expires locally.
func (c Claims) Expired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// Inspect decodes the token's claims without verifying the signature.
func Inspect(token string) (Claims, error) {
	var mc jwt.MapClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &mc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}
	out := Claims{}
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, found := mc["email"].(string); found {
		out.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
