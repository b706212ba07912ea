// ABOUTME: DTO definitions matching the CRM backend responses
// ABOUTME: Records pass through unmodified; the client computes nothing beyond display formatting

package api

import "time"

// TicketStatus is the backend ticket lifecycle state
type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusOnHold     TicketStatus = "ON_HOLD"
	StatusResolved   TicketStatus = "RESOLVED"
	StatusClosed     TicketStatus = "CLOSED"
)

// Statuses lists every ticket status in lifecycle order
var Statuses = []TicketStatus{StatusOpen, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed}

// TicketPriority is the backend ticket urgency level
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
	PriorityUrgent TicketPriority = "URGENT"
)

// Priorities lists every priority from least to most urgent
var Priorities = []TicketPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// PriorityRank returns a sort rank, most urgent first
func PriorityRank(p TicketPriority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// User roles recognized by the backend
const (
	RoleAdmin    = "ADMIN"
	RoleAgent    = "AGENT"
	RoleCustomer = "CUSTOMER"
)

// Customer represents a CRM customer record
type Customer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerInput is the create/update payload for customers
type CustomerInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Agent represents a support agent
type Agent struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	DepartmentName string `json:"departmentName"`
}

// AgentInput is the create/update payload for agents
type AgentInput struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	DepartmentID int64  `json:"departmentId"`
}

// Department represents a support department
type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DepartmentInput is the create/update payload for departments
type DepartmentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Ticket represents a support ticket with its nested associations
type Ticket struct {
	ID            int64          `json:"id"`
	Subject       string         `json:"subject"`
	Description   string         `json:"description"`
	Status        TicketStatus   `json:"status"`
	Priority      TicketPriority `json:"priority"`
	Customer      Customer       `json:"customer"`
	Department    Department     `json:"department"`
	AssignedAgent *Agent         `json:"assignedAgent"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// TicketInput is the create/update payload for tickets
type TicketInput struct {
	Subject         string         `json:"subject"`
	Description     string         `json:"description"`
	Priority        TicketPriority `json:"priority"`
	CustomerID      int64          `json:"customerId"`
	DepartmentID    int64          `json:"departmentId"`
	AssignedAgentID *int64         `json:"assignedAgentId,omitempty"`
}

// TicketComment represents a comment on a ticket with its author identity
type TicketComment struct {
	ID              int64     `json:"id"`
	TicketID        int64     `json:"ticketId"`
	Comment         string    `json:"comment"`
	AuthorFirstName string    `json:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName"`
	AuthorRole      string    `json:"authorRole"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CommentInput is the create payload for ticket comments
type CommentInput struct {
	TicketID int64  `json:"ticketId"`
	Comment  string `json:"comment"`
}

// CommentUpdate is the update payload for an existing comment
type CommentUpdate struct {
	Comment string `json:"comment"`
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the result of a successful login
type LoginResponse struct {
	Token string `json:"token"`
}
