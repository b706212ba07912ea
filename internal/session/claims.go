// ABOUTME: Bearer token claim decoding for the CRM backend
// ABOUTME: Decodes without signature verification; authorization is enforced server-side

package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the token fields the client consumes. The email rides in
// the registered `sub` claim, the expiry in `exp`.
type Claims struct {
	UserID    int64    `json:"userId"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// decodeToken parses the token payload without verifying its signature.
// The client only needs identity and expiry; the backend re-validates
// the signature on every request.
func decodeToken(token string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &claims, nil
}

// expired reports whether the token's exp is in the past, compared in
// whole unix seconds. A token without exp is treated as expired.
func (c *Claims) expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Unix() <= now.Unix()
}
