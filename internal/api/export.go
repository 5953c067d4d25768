package api

import (
	"context"
	"net/url"
	"strconv"
)

// ExportPreviewParams narrows the duty chart export preview.
type ExportPreviewParams struct {
	ChartID   int64
	Scope     string // "full" or "range"
	StartDate string // ISO, with Scope "range"
	EndDate   string
	Page      int
	PageSize  int
}

// ExportColumn is one column descriptor of the preview grid.
type ExportColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ExportPreview is the server-computed duty chart grid used for export.
type ExportPreview struct {
	Chart struct {
		ID            int64   `json:"id"`
		Name          *string `json:"name"`
		Office        *string `json:"office"`
		EffectiveDate string  `json:"effective_date"`
		EndDate       *string `json:"end_date"`
	} `json:"chart"`
	Columns    []ExportColumn `json:"columns"`
	Pagination struct {
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
		Total    int `json:"total"`
	} `json:"pagination"`
	Rows []map[string]any `json:"rows"`
}

// GetDutyChartExportPreview fetches the export grid for a duty chart.
func (c *Client) GetDutyChartExportPreview(ctx context.Context, params ExportPreviewParams) (*ExportPreview, error) {
	query := url.Values{}
	query.Set("chart_id", strconv.FormatInt(params.ChartID, 10))
	if params.Scope != "" {
		query.Set("scope", params.Scope)
	}
	if params.StartDate != "" {
		query.Set("start_date", params.StartDate)
	}
	if params.EndDate != "" {
		query.Set("end_date", params.EndDate)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}

	var preview ExportPreview
	if err := c.do(ctx, "GET", c.endpoint("/export/duty-chart/preview/", query), nil, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}
