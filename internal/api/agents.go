// ABOUTME: Agent resource client
// ABOUTME: Thin typed wrappers over the shared request path

package api

import (
	"context"
	"fmt"
	"net/url"
)

// AgentFilter narrows FindAgents results; zero values are omitted
type AgentFilter struct {
	Name       string
	Department string
}

// Values converts the filter to query parameters
func (f AgentFilter) Values() url.Values {
	v := url.Values{}
	if f.Name != "" {
		v.Set("name", f.Name)
	}
	if f.Department != "" {
		v.Set("department", f.Department)
	}
	return v
}

// FindAgents lists agents matching the filter
func (c *Client) FindAgents(ctx context.Context, filter AgentFilter) ([]Agent, error) {
	var agents []Agent
	if err := c.get(ctx, "/api/agents", filter.Values(), &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent fetches a single agent by id
func (c *Client) GetAgent(ctx context.Context, id int64) (*Agent, error) {
	if id == 0 {
		return nil, fmt.Errorf("agent id is required")
	}
	var agent Agent
	if err := c.get(ctx, fmt.Sprintf("/api/agents/%d", id), nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// CreateAgent creates a new agent
func (c *Client) CreateAgent(ctx context.Context, input AgentInput) (*Agent, error) {
	var agent Agent
	if err := c.post(ctx, "/api/agents", input, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// UpdateAgent replaces an existing agent
func (c *Client) UpdateAgent(ctx context.Context, id int64, input AgentInput) (*Agent, error) {
	if id == 0 {
		return nil, fmt.Errorf("agent id is required")
	}
	var agent Agent
	if err := c.put(ctx, fmt.Sprintf("/api/agents/%d", id), input, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// DeleteAgent removes an agent
func (c *Client) DeleteAgent(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("agent id is required")
	}
	return c.del(ctx, fmt.Sprintf("/api/agents/%d", id))
}
