package api

import "context"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	User        Principal `json:"user"`
}

// Login exchanges credentials for a bearer token and the principal.
// A bad email/password pair comes back as KindAuthentication; the caller's
// session is expected to remain unchanged on any failure.
func (c *Client) Login(ctx context.Context, email, password string) (Authorization, error) {
	var resp authResponse
	err := c.call(ctx, "POST", "/auth/login", loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Token: resp.AccessToken, Principal: resp.User}, nil
}

// Register creates an account and returns a ready-to-use authorization,
// matching the backend's register-then-issue-token behavior.
func (c *Client) Register(ctx context.Context, name, email, password string) (Authorization, error) {
	var resp authResponse
	err := c.call(ctx, "POST", "/auth/register", registerRequest{Name: name, Email: email, Password: password}, &resp, false)
	if err != nil {
		return Authorization{}, err
	}
	return Authorization{Token: resp.AccessToken, Principal: resp.User}, nil
}
