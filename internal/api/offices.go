package api

import (
	"context"
	"fmt"
	"net/http"

	"dutychart/internal/model"
)

// OfficeInput is the write shape for office create/update calls.
type OfficeInput struct {
	Name       string `json:"name"`
	Code       string `json:"code,omitempty"`
	Location   string `json:"location,omitempty"`
	Department *int64 `json:"department,omitempty"`
}

// ListOffices fetches all offices.
func (c *Client) ListOffices(ctx context.Context) ([]model.Office, error) {
	var offices []model.Office
	if err := c.doGet(ctx, c.endpoint("/offices/", nil), &offices); err != nil {
		return nil, err
	}
	return offices, nil
}

// GetOffice fetches a single office by id.
func (c *Client) GetOffice(ctx context.Context, id int64) (*model.Office, error) {
	var office model.Office
	if err := c.doGet(ctx, c.endpoint(fmt.Sprintf("/offices/%d/", id), nil), &office); err != nil {
		return nil, err
	}
	return &office, nil
}

// CreateOffice creates a new office.
func (c *Client) CreateOffice(ctx context.Context, in OfficeInput) (*model.Office, error) {
	var office model.Office
	if err := c.do(ctx, http.MethodPost, c.endpoint("/offices/", nil), in, &office); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, "/offices/")
	return &office, nil
}

// UpdateOffice replaces an office (PUT).
func (c *Client) UpdateOffice(ctx context.Context, id int64, in OfficeInput) (*model.Office, error) {
	var office model.Office
	if err := c.do(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/offices/%d/", id), nil), in, &office); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, "/offices/")
	return &office, nil
}

// DeleteOffice removes an office by id.
func (c *Client) DeleteOffice(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, c.endpoint(fmt.Sprintf("/offices/%d/", id), nil), nil, nil); err != nil {
		return err
	}
	c.invalidateCache(ctx, "/offices/")
	return nil
}
