package backend

import (
	"context"
	"net/http"
)

// Profile returns the current staff profile.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/staff/profile", out: &out}); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile applies profile edits and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, call{method: http.MethodPut, path: "/staff/profile", body: u, out: &out}); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, pc PasswordChange) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/staff/security/change-password", body: pc})
}
