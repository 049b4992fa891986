package gateway

import (
	"context"
	"net/url"

	"tripdesk.io/internal/agency"
)

// Permissions fetches the full role-to-capability matrix for the admin
// screen.
func (c *Client) Permissions(ctx context.Context) (map[string]agency.PermissionSet, error) {
	raw, err := c.get(ctx, "/permissions", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]agency.PermissionSet
	if err := decode(unwrapObject(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RolePermissions fetches the capability map for one role. This satisfies
// session.PermissionFetcher, so the session store caches it per login.
func (c *Client) RolePermissions(ctx context.Context, role string) (agency.PermissionSet, error) {
	raw, err := c.get(ctx, "/permissions/"+url.PathEscape(role), nil)
	if err != nil {
		return nil, err
	}
	var out agency.PermissionSet
	if err := decode(unwrapObject(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRolePermissions replaces a role's capability map.
func (c *Client) UpdateRolePermissions(ctx context.Context, role string, set agency.PermissionSet) error {
	_, err := c.send(ctx, "PUT", "/permissions/"+url.PathEscape(role), set)
	return err
}
