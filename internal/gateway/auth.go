package gateway

import (
	"context"

	"tripdesk.io/internal/agency"
)

// LoginResult is the backend's answer to login and register.
type LoginResult struct {
	Token            string       `json:"token"`
	Agent            agency.Agent `json:"agent"`
	ApprovalRequired bool         `json:"approvalRequired,omitempty"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone,omitempty"`
	AgencyName string `json:"agencyName,omitempty"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	raw, err := c.send(ctx, "POST", "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

// Register creates a new agent account. The returned identity is usually
// inactive until an administrator approves it.
func (c *Client) Register(ctx context.Context, input RegisterInput) (LoginResult, error) {
	var out LoginResult
	raw, err := c.send(ctx, "POST", "/auth/register", input)
	if err != nil {
		return out, err
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return out, err
	}
	return out, nil
}

// ApprovalStatus polls the current identity's approval state while it waits
// on the pending-approval view.
func (c *Client) ApprovalStatus(ctx context.Context) (string, error) {
	raw, err := c.get(ctx, "/auth/approval-status", nil)
	if err != nil {
		return "", err
	}
	var out struct {
		ApprovalStatus string `json:"approvalStatus"`
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return "", err
	}
	return out.ApprovalStatus, nil
}
