// ABOUTME: Ticket list screen with search, status/priority filters, and sort
// ABOUTME: Emits filter-change and status-change messages; the host owns fetching

package ticketlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/tui/icons"
	"github.com/crmdesk/cli/internal/tui/styles"
	"github.com/crmdesk/cli/internal/tui/widgets"
)

// FilterChangedMsg is sent whenever the active filter state changes.
// The host must start a fresh fetch keyed on the new state.
type FilterChangedMsg struct{}

// RefreshMsg asks the host to invalidate and refetch the current key
type RefreshMsg struct{}

// OpenMsg asks the host to open the ticket detail screen
type OpenMsg struct {
	ID int64
}

// StatusChangeMsg asks the host to run the optimistic status mutation
type StatusChangeMsg struct {
	ID   int64
	From api.TicketStatus
	To   api.TicketStatus
}

// statusFilters cycles "" (all) plus every backend status
var statusFilters = append([]api.TicketStatus{""}, api.Statuses...)

// priorityFilters cycles "" (all) plus every backend priority
var priorityFilters = append([]api.TicketPriority{""}, api.Priorities...)

var sortOrders = []string{api.SortNewest, api.SortOldest, api.SortPriority}

// TicketList is the main ticket browser
type TicketList struct {
	search      textinput.Model
	statusIdx   int
	priorityIdx int
	sortIdx     int

	tickets []api.Ticket
	cursor  int

	loading bool
	errMsg  string
	notice  string

	width  int
	height int
}

// New creates the ticket list in its loading state
func New() *TicketList {
	search := textinput.New()
	search.Placeholder = "search tickets"
	search.Prompt = "/ "
	search.CharLimit = 80

	return &TicketList{
		search:  search,
		loading: true,
	}
}

// Filter returns the active backend filter and local sort order. Passed
// by value to the host, which turns it into the query key.
func (t *TicketList) Filter() (api.TicketFilter, string) {
	return api.TicketFilter{
		Search:   t.search.Value(),
		Status:   statusFilters[t.statusIdx],
		Priority: priorityFilters[t.priorityIdx],
	}, sortOrders[t.sortIdx]
}

// SetLoading puts the list into the loading state
func (t *TicketList) SetLoading() {
	t.loading = true
	t.errMsg = ""
}

// SetTickets commits fetched data, leaving loading/error state
func (t *TicketList) SetTickets(tickets []api.Ticket) {
	t.tickets = tickets
	t.loading = false
	t.errMsg = ""
	if t.cursor >= len(tickets) {
		t.cursor = 0
	}
}

// SetError shows the per-screen error state with a retry hint
func (t *TicketList) SetError(msg string) {
	t.loading = false
	t.errMsg = msg
}

// SetNotice shows a transient message, e.g. a rolled-back mutation
func (t *TicketList) SetNotice(msg string) {
	t.notice = msg
}

// SetSize updates the list dimensions
func (t *TicketList) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Selected returns the ticket under the cursor, or nil
func (t *TicketList) Selected() *api.Ticket {
	if t.cursor < 0 || t.cursor >= len(t.tickets) {
		return nil
	}
	return &t.tickets[t.cursor]
}

// ApplyStatus updates the visible status of a ticket in place. Used for
// both the optimistic apply and the rollback.
func (t *TicketList) ApplyStatus(id int64, status api.TicketStatus) {
	for i := range t.tickets {
		if t.tickets[i].ID == id {
			t.tickets[i].Status = status
			return
		}
	}
}

// nextStatus returns the next lifecycle status after s, wrapping around
func nextStatus(s api.TicketStatus) api.TicketStatus {
	for i, candidate := range api.Statuses {
		if candidate == s {
			return api.Statuses[(i+1)%len(api.Statuses)]
		}
	}
	return api.StatusOpen
}

// Update handles keys and emits host messages
func (t *TicketList) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	t.notice = ""

	if t.search.Focused() {
		switch keyMsg.String() {
		case "enter", "esc":
			t.search.Blur()
			return emit(FilterChangedMsg{})
		default:
			var cmd tea.Cmd
			t.search, cmd = t.search.Update(msg)
			return cmd
		}
	}

	switch keyMsg.String() {
	case "/":
		t.search.Focus()
		return textinput.Blink
	case "f":
		t.statusIdx = (t.statusIdx + 1) % len(statusFilters)
		return emit(FilterChangedMsg{})
	case "p":
		t.priorityIdx = (t.priorityIdx + 1) % len(priorityFilters)
		return emit(FilterChangedMsg{})
	case "o":
		t.sortIdx = (t.sortIdx + 1) % len(sortOrders)
		return emit(FilterChangedMsg{})
	case "r":
		return emit(RefreshMsg{})
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.tickets)-1 {
			t.cursor++
		}
	case "enter":
		if selected := t.Selected(); selected != nil {
			return emit(OpenMsg{ID: selected.ID})
		}
	case "s":
		if selected := t.Selected(); selected != nil {
			return emit(StatusChangeMsg{
				ID:   selected.ID,
				From: selected.Status,
				To:   nextStatus(selected.Status),
			})
		}
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders exactly one of loading, error, or data
func (t *TicketList) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Ticket.String() + " Tickets"))
	sb.WriteString("\n")
	sb.WriteString(t.filterLine())
	sb.WriteString("\n\n")

	switch {
	case t.loading:
		sb.WriteString("Loading tickets...\n")
	case t.errMsg != "":
		sb.WriteString(styles.ErrorStyle.Render("Error: " + t.errMsg))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("press r to retry"))
		sb.WriteString("\n")
	case len(t.tickets) == 0:
		sb.WriteString(styles.Dim.Render("No tickets match the current filters."))
		sb.WriteString("\n")
	default:
		for i, ticket := range t.tickets {
			sb.WriteString(t.renderRow(i, ticket))
			sb.WriteString("\n")
		}
	}

	if t.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorStyle.Render(t.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("/ search · f status · p priority · o sort · s advance status · enter open · r refresh"))
	return sb.String()
}

func (t *TicketList) filterLine() string {
	filter, order := t.Filter()
	status := "all"
	if filter.Status != "" {
		status = string(filter.Status)
	}
	priority := "all"
	if filter.Priority != "" {
		priority = string(filter.Priority)
	}

	line := fmt.Sprintf("status:%s  priority:%s  sort:%s", status, priority, order)
	if t.search.Focused() {
		return t.search.View() + "  " + styles.Dim.Render(line)
	}
	if filter.Search != "" {
		line = fmt.Sprintf("search:%q  %s", filter.Search, line)
	}
	return styles.Dim.Render(line)
}

func (t *TicketList) renderRow(i int, ticket api.Ticket) string {
	assignee := "unassigned"
	if ticket.AssignedAgent != nil {
		assignee = ticket.AssignedAgent.FirstName + " " + ticket.AssignedAgent.LastName
	}

	row := fmt.Sprintf("#%-5d %s %s  %-40s %-20s %s",
		ticket.ID,
		widgets.StatusBadge(ticket.Status),
		widgets.PriorityBadge(ticket.Priority),
		truncate(ticket.Subject, 40),
		assignee,
		styles.Dim.Render(humanize.Time(ticket.CreatedAt)),
	)

	if i == t.cursor {
		return styles.KeyStyle.Render("> ") + row
	}
	return "  " + row
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
