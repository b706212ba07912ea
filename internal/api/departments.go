// ABOUTME: Department resource client
// ABOUTME: Delete surfaces referential-conflict messages verbatim

package api

import (
	"context"
	"fmt"
	"net/url"
)

// DepartmentFilter narrows FindDepartments results; zero values are omitted
type DepartmentFilter struct {
	Name string
}

// Values converts the filter to query parameters
func (f DepartmentFilter) Values() url.Values {
	v := url.Values{}
	if f.Name != "" {
		v.Set("name", f.Name)
	}
	return v
}

// FindDepartments lists departments matching the filter
func (c *Client) FindDepartments(ctx context.Context, filter DepartmentFilter) ([]Department, error) {
	var departments []Department
	if err := c.get(ctx, "/api/departments", filter.Values(), &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// GetDepartment fetches a single department by id
func (c *Client) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	if id == 0 {
		return nil, fmt.Errorf("department id is required")
	}
	var department Department
	if err := c.get(ctx, fmt.Sprintf("/api/departments/%d", id), nil, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// CreateDepartment creates a new department
func (c *Client) CreateDepartment(ctx context.Context, input DepartmentInput) (*Department, error) {
	var department Department
	if err := c.post(ctx, "/api/departments", input, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// UpdateDepartment replaces an existing department
func (c *Client) UpdateDepartment(ctx context.Context, id int64, input DepartmentInput) (*Department, error) {
	if id == 0 {
		return nil, fmt.Errorf("department id is required")
	}
	var department Department
	if err := c.put(ctx, fmt.Sprintf("/api/departments/%d", id), input, &department); err != nil {
		return nil, err
	}
	return &department, nil
}

// DeleteDepartment removes a department. The backend rejects deletion of
// a department still referenced by agents; that message reaches the
// caller unchanged.
func (c *Client) DeleteDepartment(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("department id is required")
	}
	return c.del(ctx, fmt.Sprintf("/api/departments/%d", id))
}
