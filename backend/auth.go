package backend

import (
	"context"
	"net/http"
)

// SignIn authenticates with email/password and returns the issued token and
// identity. Rejected credentials surface as ErrInvalidCredentials.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	var out AuthResult
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/staff-signin",
		body:            map[string]string{"email": email, "password": password},
		out:             &out,
		unauthenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new staff account. It does not establish a session.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	var out SignUpResult
	err := c.do(ctx, call{
		method:          http.MethodPost,
		path:            "/auth/staff-signup",
		body:            req,
		out:             &out,
		unauthenticated: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut invalidates the current token server-side. Callers treat this as
// best-effort: local sign-out proceeds regardless of the result.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, call{method: http.MethodPost, path: "/auth/signout"})
}

// Me returns the identity behind the current token. Used for both startup
// rehydration and mid-session permission refresh.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, call{method: http.MethodGet, path: "/auth/me", out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
