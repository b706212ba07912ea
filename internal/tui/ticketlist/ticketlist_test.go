// ABOUTME: Tests for the ticket list screen's filter state and key handling
// ABOUTME: Runs emitted commands synchronously to inspect host messages

package ticketlist

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/crmdesk/cli/internal/api"
)

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{}
}

// runCmd executes an emitted command and returns its message
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func testTickets() []api.Ticket {
	return []api.Ticket{
		{ID: 1, Subject: "Printer on fire", Status: api.StatusOpen, Priority: api.PriorityUrgent, CreatedAt: time.Now()},
		{ID: 2, Subject: "Password reset", Status: api.StatusResolved, Priority: api.PriorityLow, CreatedAt: time.Now()},
	}
}

func TestInitialFilterState(t *testing.T) {
	list := New()
	filter, sortBy := list.Filter()
	if filter.Search != "" || filter.Status != "" || filter.Priority != "" {
		t.Errorf("expected empty initial filter, got %+v", filter)
	}
	if sortBy != api.SortNewest {
		t.Errorf("expected newest-first default sort, got %q", sortBy)
	}
}

func TestStatusCycleEmitsFilterChanged(t *testing.T) {
	list := New()
	cmd := list.Update(key("f"))
	if _, ok := runCmd(cmd).(FilterChangedMsg); !ok {
		t.Fatal("expected FilterChangedMsg after status cycle")
	}
	filter, _ := list.Filter()
	if filter.Status != api.StatusOpen {
		t.Errorf("expected first status filter OPEN, got %q", filter.Status)
	}

	// Cycling past the last status wraps back to all.
	for i := 0; i < len(api.Statuses); i++ {
		list.Update(key("f"))
	}
	filter, _ = list.Filter()
	if filter.Status != "" {
		t.Errorf("expected wrap back to all statuses, got %q", filter.Status)
	}
}

func TestPriorityAndSortCycle(t *testing.T) {
	list := New()
	if _, ok := runCmd(list.Update(key("p"))).(FilterChangedMsg); !ok {
		t.Fatal("expected FilterChangedMsg after priority cycle")
	}
	filter, _ := list.Filter()
	if filter.Priority != api.PriorityLow {
		t.Errorf("expected first priority filter LOW, got %q", filter.Priority)
	}

	if _, ok := runCmd(list.Update(key("o"))).(FilterChangedMsg); !ok {
		t.Fatal("expected FilterChangedMsg after sort cycle")
	}
	_, sortBy := list.Filter()
	if sortBy != api.SortOldest {
		t.Errorf("expected oldest after one sort cycle, got %q", sortBy)
	}
}

func TestSearchSubmitEmitsFilterChanged(t *testing.T) {
	list := New()
	list.Update(key("/"))
	for _, r := range "printer" {
		list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	cmd := list.Update(key("enter"))
	if _, ok := runCmd(cmd).(FilterChangedMsg); !ok {
		t.Fatal("expected FilterChangedMsg after search submit")
	}
	filter, _ := list.Filter()
	if filter.Search != "printer" {
		t.Errorf("expected search text committed, got %q", filter.Search)
	}
}

func TestRefreshKey(t *testing.T) {
	list := New()
	if _, ok := runCmd(list.Update(key("r"))).(RefreshMsg); !ok {
		t.Fatal("expected RefreshMsg on r")
	}
}

func TestOpenSelected(t *testing.T) {
	list := New()
	list.SetTickets(testTickets())
	list.Update(key("down"))
	msg := runCmd(list.Update(key("enter")))
	open, ok := msg.(OpenMsg)
	if !ok {
		t.Fatalf("expected OpenMsg, got %T", msg)
	}
	if open.ID != 2 {
		t.Errorf("expected ticket 2 under cursor, got %d", open.ID)
	}
}

func TestStatusChangeCarriesFromAndTo(t *testing.T) {
	list := New()
	list.SetTickets(testTickets())
	msg := runCmd(list.Update(key("s")))
	change, ok := msg.(StatusChangeMsg)
	if !ok {
		t.Fatalf("expected StatusChangeMsg, got %T", msg)
	}
	if change.ID != 1 || change.From != api.StatusOpen || change.To != api.StatusInProgress {
		t.Errorf("unexpected status change: %+v", change)
	}
}

func TestApplyStatusRollback(t *testing.T) {
	list := New()
	list.SetTickets(testTickets())

	list.ApplyStatus(1, api.StatusInProgress)
	if list.tickets[0].Status != api.StatusInProgress {
		t.Fatal("expected optimistic status applied")
	}

	list.ApplyStatus(1, api.StatusOpen)
	if list.tickets[0].Status != api.StatusOpen {
		t.Error("expected rollback to restore the previous status")
	}
}

func TestViewStates(t *testing.T) {
	list := New()
	if !strings.Contains(list.View(), "Loading tickets") {
		t.Error("expected loading state in initial view")
	}

	list.SetError("cannot connect to backend at http://localhost:8080")
	view := list.View()
	if !strings.Contains(view, "cannot connect to backend") {
		t.Error("expected error message in view")
	}
	if !strings.Contains(view, "press r to retry") {
		t.Error("expected retry hint in error view")
	}
	if strings.Contains(view, "Loading tickets") {
		t.Error("error view must not also show loading")
	}

	list.SetTickets(nil)
	if !strings.Contains(list.View(), "No tickets match") {
		t.Error("expected empty state message")
	}

	list.SetTickets(testTickets())
	view = list.View()
	if !strings.Contains(view, "Printer on fire") || !strings.Contains(view, "Password reset") {
		t.Error("expected ticket rows in data view")
	}
}
