package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dutychart/internal/model"
)

// ListNotifications fetches the notification inbox. The endpoint returns
// either a bare array or a paginated {"results": [...]} wrapper depending on
// backend configuration; both are accepted. Never cached: the list is live.
func (c *Client) ListNotifications(ctx context.Context) ([]model.Notification, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("/notifications/notifications/", nil), nil, &raw); err != nil {
		return nil, err
	}
	return decodeNotificationList(raw)
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost,
		c.endpoint(fmt.Sprintf("/notifications/notifications/%d/mark_as_read/", id), nil), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost,
		c.endpoint("/notifications/notifications/mark_all_as_read/", nil), nil, nil)
}

func decodeNotificationList(raw json.RawMessage) ([]model.Notification, error) {
	var list []model.Notification
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var page struct {
		Results []model.Notification `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return page.Results, nil
}
