// ABOUTME: Customer resource client
// ABOUTME: Thin typed wrappers over the shared request path

package api

import (
	"context"
	"fmt"
	"net/url"
)

// CustomerFilter narrows FindCustomers results; zero values are omitted
type CustomerFilter struct {
	Name string
}

// Values converts the filter to query parameters
func (f CustomerFilter) Values() url.Values {
	v := url.Values{}
	if f.Name != "" {
		v.Set("name", f.Name)
	}
	return v
}

// FindCustomers lists customers matching the filter
func (c *Client) FindCustomers(ctx context.Context, filter CustomerFilter) ([]Customer, error) {
	var customers []Customer
	if err := c.get(ctx, "/api/customers", filter.Values(), &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer fetches a single customer by id
func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	if id == 0 {
		return nil, fmt.Errorf("customer id is required")
	}
	var customer Customer
	if err := c.get(ctx, fmt.Sprintf("/api/customers/%d", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer creates a new customer
func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (*Customer, error) {
	var customer Customer
	if err := c.post(ctx, "/api/customers", input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer replaces an existing customer
func (c *Client) UpdateCustomer(ctx context.Context, id int64, input CustomerInput) (*Customer, error) {
	if id == 0 {
		return nil, fmt.Errorf("customer id is required")
	}
	var customer Customer
	if err := c.put(ctx, fmt.Sprintf("/api/customers/%d", id), input, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer
func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("customer id is required")
	}
	return c.del(ctx, fmt.Sprintf("/api/customers/%d", id))
}
