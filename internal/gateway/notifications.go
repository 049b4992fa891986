package gateway

import (
	"context"
	"net/url"

	"tripdesk.io/internal/agency"
)

// Notifications fetches the feed for the current identity.
func (c *Client) Notifications(ctx context.Context, q Query) ([]agency.Notification, error) {
	return list[agency.Notification](ctx, c, "/notifications", "notifications", q)
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	raw, err := c.get(ctx, "/notifications/unread-count", nil)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := decode(unwrapObject(raw), &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := c.send(ctx, "PATCH", "/notifications/"+url.PathEscape(id)+"/read", nil)
	return err
}

// MarkAllNotificationsRead marks the whole feed read. Safe to call when
// everything is already read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.send(ctx, "PATCH", "/notifications/read-all", nil)
	return err
}
