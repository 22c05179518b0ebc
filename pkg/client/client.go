package client

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Client is a thin mapping from logical operations to the maintenance
// API's HTTP surface. No retries, timeouts or caching are configured; a
// call either completes or returns its transport error, and callers decide
// what to do next.
type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

/* ───────────── requests ───────────── */

func (c *Client) ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error) {
	params := map[string]string{}
	appendParam(params, "status", filter.Status)
	appendParam(params, "tenant_id", filter.TenantID)
	appendParam(params, "building_id", filter.BuildingID)
	appendParam(params, "issue_type", filter.IssueType)
	appendParam(params, "priority", filter.Priority)

	var out []Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/requests/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return out, nil
}

// CreateRequest posts a new request. Status is forced to OPEN; the server
// owns every later transition.
func (c *Client) CreateRequest(ctx context.Context, in CreateRequestInput) (*Request, error) {
	in.Status = "OPEN"

	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Post("/requests/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

func (c *Client) GetRequest(ctx context.Context, id string) (*Request, error) {
	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/requests/" + id)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

// UpdateRequest sends a partial update; only the keys present in body are
// touched server-side.
func (c *Client) UpdateRequest(ctx context.Context, id string, body map[string]any) (*Request, error) {
	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Put("/requests/" + id)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

func (c *Client) DeleteRequest(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Delete("/requests/" + id)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

func (c *Client) assignStaff(ctx context.Context, id string, body map[string]any) (*Request, error) {
	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/requests/%s/assign", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

func (c *Client) addNote(ctx context.Context, id string, body map[string]any) (*Request, error) {
	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post(fmt.Sprintf("/requests/%s/notes", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

func (c *Client) completeAssignment(ctx context.Context, id, staffID string) (*Request, error) {
	var out Request
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("staff_id", staffID).
		SetResult(&out).
		Post(fmt.Sprintf("/requests/%s/complete", id))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, newAPIError(resp)
	}
	return &out, nil
}

/* ───────────── directory ───────────── */

func (c *Client) ListBuildings(ctx context.Context) ([]Building, error) {
	var out []Building
	return out, c.getJSON(ctx, "/buildings/", nil, &out)
}

func (c *Client) GetBuilding(ctx context.Context, id string) (*Building, error) {
	var out Building
	if err := c.getJSON(ctx, "/buildings/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUnits(ctx context.Context, buildingID string) ([]Unit, error) {
	params := map[string]string{}
	appendParam(params, "building_id", buildingID)

	var out []Unit
	return out, c.getJSON(ctx, "/units/", params, &out)
}

func (c *Client) GetUnit(ctx context.Context, id string) (*Unit, error) {
	var out Unit
	if err := c.getJSON(ctx, "/units/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTenants(ctx context.Context, unitID string) ([]Tenant, error) {
	params := map[string]string{}
	appendParam(params, "unit_id", unitID)

	var out []Tenant
	return out, c.getJSON(ctx, "/tenants/", params, &out)
}

func (c *Client) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	var out Tenant
	if err := c.getJSON(ctx, "/tenants/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListStaff(ctx context.Context, active string) ([]Staff, error) {
	params := map[string]string{}
	appendParam(params, "active", active)

	var out []Staff
	return out, c.getJSON(ctx, "/staff/", params, &out)
}

func (c *Client) GetStaff(ctx context.Context, id string) (*Staff, error) {
	var out Staff
	if err := c.getJSON(ctx, "/staff/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* ───────────── metrics ───────────── */

func (c *Client) MetricsOverview(ctx context.Context) (*MetricsOverview, error) {
	var out MetricsOverview
	if err := c.getJSON(ctx, "/metrics/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RequestsByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	return out, c.getJSON(ctx, "/metrics/requests-by-status", nil, &out)
}

func (c *Client) RequestsByPriority(ctx context.Context) ([]PriorityCount, error) {
	var out []PriorityCount
	return out, c.getJSON(ctx, "/metrics/requests-by-priority", nil, &out)
}

func (c *Client) RequestsOverTime(ctx context.Context, days int) ([]DateCount, error) {
	params := map[string]string{}
	if days > 0 {
		params["days"] = fmt.Sprintf("%d", days)
	}
	var out []DateCount
	return out, c.getJSON(ctx, "/metrics/requests-over-time", params, &out)
}

func (c *Client) BuildingPerformance(ctx context.Context) ([]BuildingPerformance, error) {
	var out []BuildingPerformance
	return out, c.getJSON(ctx, "/metrics/building-performance", nil, &out)
}

func (c *Client) StaffPerformance(ctx context.Context) ([]StaffPerformance, error) {
	var out []StaffPerformance
	return out, c.getJSON(ctx, "/metrics/staff-performance", nil, &out)
}

/* ───────────── shared plumbing ───────────── */

func (c *Client) getJSON(ctx context.Context, path string, params map[string]string, out any) error {
	req := c.http.R().SetContext(ctx).SetResult(out)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return newAPIError(resp)
	}
	return nil
}

// appendParam adds the key only when the value is non-empty, so unset
// filters never reach the wire as empty-string matches.
func appendParam(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}
