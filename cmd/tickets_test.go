// ABOUTME: Tests for ticket command helpers and human-readable formatting

package cmd

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/crmdesk/cli/internal/api"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		arg     string
		want    api.TicketStatus
		wantErr bool
	}{
		{"open", api.StatusOpen, false},
		{"IN_PROGRESS", api.StatusInProgress, false},
		{"Resolved", api.StatusResolved, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parseStatus(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseStatus(%q): expected error, got %q", tt.arg, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseStatus(%q): unexpected error: %v", tt.arg, err)
		}
		if got != tt.want {
			t.Errorf("parseStatus(%q): expected %q, got %q", tt.arg, tt.want, got)
		}
	}
}

func TestParsePriority(t *testing.T) {
	got, err := parsePriority("urgent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != api.PriorityUrgent {
		t.Errorf("expected URGENT, got %q", got)
	}

	if _, err := parsePriority("whenever"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected 42, got %d", id)
	}

	if _, err := parseID("forty-two"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := parseID("0"); err == nil {
		t.Error("expected error for zero id")
	}
}

func TestFormatTicket(t *testing.T) {
	now := time.Now()
	ticket := &api.Ticket{
		ID:          9,
		Subject:     "Monitor flickers",
		Description: "Happens after standby.",
		Status:      api.StatusInProgress,
		Priority:    api.PriorityHigh,
		Customer:    api.Customer{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Department:  api.Department{Name: "Hardware"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	comments := []api.TicketComment{
		{AuthorFirstName: "Grace", AuthorLastName: "Hopper", AuthorRole: api.RoleAgent, Comment: "Swapping the cable.", CreatedAt: now},
	}

	out := formatTicket(ticket, comments)
	for _, want := range []string{
		"Ticket #9: Monitor flickers",
		"Status:     IN_PROGRESS",
		"Priority:   HIGH",
		"Ada Lovelace <ada@example.com>",
		"Department: Hardware",
		"Assignee:   unassigned",
		"Happens after standby.",
		"Comments (1)",
		"Grace Hopper (AGENT): Swapping the cable.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatTicket_WithAssignee(t *testing.T) {
	ticket := &api.Ticket{
		ID:            3,
		Subject:       "x",
		AssignedAgent: &api.Agent{FirstName: "Grace", LastName: "Hopper"},
	}
	out := formatTicket(ticket, nil)
	if !strings.Contains(out, "Assignee:   Grace Hopper") {
		t.Errorf("expected assignee line, got:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	if got := truncate("a very long ticket subject line", 10); len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("expected 10-rune truncation with ellipsis, got %q", got)
	}

	// Multi-byte subjects must be cut on rune boundaries, never mid-rune.
	got := truncate("Störung im Büro, Drucker kaputt", 12)
	if !utf8.ValidString(got) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", got)
	}
	if len([]rune(got)) != 12 || !strings.HasSuffix(got, "…") {
		t.Errorf("expected 12-rune truncation with ellipsis, got %q", got)
	}
	if got := truncate("日本語の件名", 10); got != "日本語の件名" {
		t.Errorf("expected short multi-byte subject unchanged, got %q", got)
	}
}

func TestRoleList(t *testing.T) {
	roles := map[string]struct{}{
		api.RoleAgent: {},
		api.RoleAdmin: {},
	}
	if got := roleList(roles); got != "ADMIN, AGENT" {
		t.Errorf("expected sorted role list, got %q", got)
	}
}
