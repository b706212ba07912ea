// ABOUTME: Authentication endpoint client
// ABOUTME: Login is the one public call that goes out without a bearer token

package api

import "context"

// Login exchanges credentials for a bearer token. The request passes
// through the shared client path; with no stored token the interceptor
// simply sends it unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
