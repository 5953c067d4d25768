package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"dutychart/internal/model"
)

// ScheduleFilter narrows ListSchedules. Zero value lists everything.
type ScheduleFilter struct {
	OfficeID    *int64
	DutyChartID *int64
}

// ScheduleInput is the write shape for schedule create/update calls.
type ScheduleInput struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Office    *int64 `json:"office,omitempty"`
	Status    string `json:"status,omitempty"`
}

// ListSchedules fetches schedules, optionally filtered by office or duty chart.
func (c *Client) ListSchedules(ctx context.Context, filter ScheduleFilter) ([]model.Schedule, error) {
	query := url.Values{}
	if filter.OfficeID != nil {
		query.Set("office", strconv.FormatInt(*filter.OfficeID, 10))
	}
	if filter.DutyChartID != nil {
		query.Set("duty_chart", strconv.FormatInt(*filter.DutyChartID, 10))
	}

	var schedules []model.Schedule
	if err := c.doGet(ctx, c.endpoint("/schedules/", query), &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule fetches a single schedule by id.
func (c *Client) GetSchedule(ctx context.Context, id int64) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := c.doGet(ctx, c.endpoint(fmt.Sprintf("/schedules/%d/", id), nil), &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// CreateSchedule creates a new schedule and returns the stored row.
func (c *Client) CreateSchedule(ctx context.Context, in ScheduleInput) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := c.do(ctx, http.MethodPost, c.endpoint("/schedules/", nil), in, &schedule); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, "/schedules/")
	return &schedule, nil
}

// UpdateSchedule replaces a schedule (PUT).
func (c *Client) UpdateSchedule(ctx context.Context, id int64, in ScheduleInput) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := c.do(ctx, http.MethodPut, c.endpoint(fmt.Sprintf("/schedules/%d/", id), nil), in, &schedule); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, "/schedules/")
	return &schedule, nil
}

// PatchSchedule partially updates a schedule (PATCH).
func (c *Client) PatchSchedule(ctx context.Context, id int64, in ScheduleInput) (*model.Schedule, error) {
	var schedule model.Schedule
	if err := c.do(ctx, http.MethodPatch, c.endpoint(fmt.Sprintf("/schedules/%d/", id), nil), in, &schedule); err != nil {
		return nil, err
	}
	c.invalidateCache(ctx, "/schedules/")
	return &schedule, nil
}

// DeleteSchedule removes a schedule by id.
func (c *Client) DeleteSchedule(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, c.endpoint(fmt.Sprintf("/schedules/%d/", id), nil), nil, nil); err != nil {
		return err
	}
	c.invalidateCache(ctx, "/schedules/")
	return nil
}
