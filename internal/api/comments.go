// ABOUTME: Ticket comment resource client
// ABOUTME: Comments are fetched per ticket or per author, never globally

package api

import (
	"context"
	"fmt"
)

// CommentsByTicket lists comments on a ticket
func (c *Client) CommentsByTicket(ctx context.Context, ticketID int64) ([]TicketComment, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket id is required")
	}
	var comments []TicketComment
	if err := c.get(ctx, fmt.Sprintf("/api/ticket-comments/ticket/%d", ticketID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentsByAuthor lists comments written by a user
func (c *Client) CommentsByAuthor(ctx context.Context, authorID int64) ([]TicketComment, error) {
	if authorID == 0 {
		return nil, fmt.Errorf("author id is required")
	}
	var comments []TicketComment
	if err := c.get(ctx, fmt.Sprintf("/api/ticket-comments/author/%d", authorID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment adds a comment to a ticket
func (c *Client) CreateComment(ctx context.Context, input CommentInput) (*TicketComment, error) {
	if input.TicketID == 0 {
		return nil, fmt.Errorf("ticket id is required")
	}
	var comment TicketComment
	if err := c.post(ctx, "/api/ticket-comments", input, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment edits an existing comment
func (c *Client) UpdateComment(ctx context.Context, id int64, input CommentUpdate) (*TicketComment, error) {
	if id == 0 {
		return nil, fmt.Errorf("comment id is required")
	}
	var comment TicketComment
	if err := c.put(ctx, fmt.Sprintf("/api/ticket-comments/%d", id), input, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	if id == 0 {
		return fmt.Errorf("comment id is required")
	}
	return c.del(ctx, fmt.Sprintf("/api/ticket-comments/%d", id))
}
