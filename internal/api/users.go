package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dutychart/internal/model"
)

// ListUsers fetches every account in one page. Like the notification list the
// endpoint may answer with a bare array or a paginated wrapper.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	query := url.Values{}
	query.Set("page_size", "1000")

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("/users/", query), nil, &raw); err != nil {
		return nil, err
	}

	var list []model.User
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var page struct {
		Results []model.User `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return page.Results, nil
}

// ListRoles fetches the assignable roles.
func (c *Client) ListRoles(ctx context.Context) ([]model.Role, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.endpoint("/roles/", nil), nil, &raw); err != nil {
		return nil, err
	}

	var list []model.Role
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var page struct {
		Results []model.Role `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	return page.Results, nil
}

// SetUserRole assigns a role (by slug) to a user.
func (c *Client) SetUserRole(ctx context.Context, userID int64, roleSlug string) error {
	body := map[string]string{"role": roleSlug}
	return c.do(ctx, http.MethodPatch, c.endpoint(fmt.Sprintf("/users/%d/", userID), nil), body, nil)
}
