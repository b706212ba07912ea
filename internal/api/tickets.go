// ABOUTME: Ticket resource client
// ABOUTME: Includes the narrow status-only PATCH alongside full CRUD

package api

import (
	"context"
	"fmt"
	"net/url"
)

// TicketFilter narrows FindTickets results; zero values are omitted
type TicketFilter struct {
	Search   string
	Status   TicketStatus
	Priority TicketPriority
}

// Values converts the filter to query parameters
func (f TicketFilter) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		v.Set("priority", string(f.Priority))
	}
	return v
}

// FindTickets lists tickets matching the filter
func (c *Client) FindTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	var tickets []Ticket
	if err := c.get(ctx, "/api/tickets", filter.Values(), &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by id
func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket id is required")
	}
	var ticket Ticket
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/%d", id), nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// TicketsByCustomer lists tickets opened by a customer
func (c *Client) TicketsByCustomer(ctx context.Context, customerID int64) ([]Ticket, error) {
	if customerID == 0 {
		return nil, fmt.Errorf("customer id is required")
	}
	var tickets []Ticket
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/customer/%d", customerID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// TicketsByAssignedAgent lists tickets assigned to an agent
func (c *Client) TicketsByAssignedAgent(ctx context.Context, agentID int64) ([]Ticket, error) {
	if agentID == 0 {
		return nil, fmt.Errorf("agent id is required")
	}
	var tickets []Ticket
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/assigned-agent/%d", agentID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// TicketsByDepartment lists tickets routed to a department
func (c *Client) TicketsByDepartment(ctx context.Context, departmentID int64) ([]Ticket, error) {
	if departmentID == 0 {
		return nil, fmt.Errorf("department id is required")
	}
	var tickets []Ticket
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/department/%d", departmentID), nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket creates a new ticket
func (c *Client) CreateTicket(ctx context.Context, input TicketInput) (*Ticket, error) {
	var ticket Ticket
	if err := c.post(ctx, "/api/tickets", input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket replaces an existing ticket
func (c *Client) UpdateTicket(ctx context.Context, id int64, input TicketInput) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket id is required")
	}
	var ticket Ticket
	if err := c.put(ctx, fmt.Sprintf("/api/tickets/%d", id), input, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicketStatus changes only the ticket's status. The status rides
// in a query parameter with no request body, so nothing else on the
// ticket is replaced.
func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status TicketStatus) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket id is required")
	}
	params := url.Values{}
	params.Set("status", string(status))
	var ticket Ticket
	if err := c.patch(ctx, fmt.Sprintf("/api/tickets/%d/status", id), params, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// DeleteTicket removes a ticket
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("ticket id is required")
	}
	return c.del(ctx, fmt.Sprintf("/api/tickets/%d", id))
}
