// ABOUTME: Ticket detail screen showing one ticket and its comments
// ABOUTME: Supports optimistic status cycling and adding comments

package ticketdetail

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

// BackMsg asks the host to return to the ticket list
type BackMsg struct{}

// RefreshMsg asks the host to refetch this ticket and its comments
type RefreshMsg struct {
	ID int64
}

// StatusChangeMsg asks the host to run the optimistic status mutation
type StatusChangeMsg struct {
	ID   int64
	From api.TicketStatus
	To   api.TicketStatus
}

// CommentMsg asks the host to post a new comment
type CommentMsg struct {
	TicketID int64
	Text     string
}

// Detail renders one ticket with its comment thread
type Detail struct {
	id       int64
	ticket   *api.Ticket
	comments []api.TicketComment

	input   textinput.Model
	loading bool
	errMsg  string
	notice  string
	width   int
}

// New creates a detail screen for the given ticket id, in loading state
func New(id int64) *Detail {
	input := textinput.New()
	input.Placeholder = "write a comment"
	input.Prompt = "> "
	input.CharLimit = 500

	return &Detail{
		id:      id,
		input:   input,
		loading: true,
	}
}

// ID returns the ticket id this screen shows
func (d *Detail) ID() int64 {
	return d.id
}

// SetLoading puts the screen back into the loading state
func (d *Detail) SetLoading() {
	d.loading = true
	d.errMsg = ""
}

// SetData commits fetched ticket and comments
func (d *Detail) SetData(ticket *api.Ticket, comments []api.TicketComment) {
	d.ticket = ticket
	d.comments = comments
	d.loading = false
	d.errMsg = ""
}

// SetError shows the per-screen error state
func (d *Detail) SetError(msg string) {
	d.loading = false
	d.errMsg = msg
}

// SetNotice shows a transient message, e.g. a rolled-back mutation
func (d *Detail) SetNotice(msg string) {
	d.notice = msg
}

// SetSize updates the available width
func (d *Detail) SetSize(width int) {
	d.width = width
}

// ApplyStatus updates the visible status. Used for both the optimistic
// apply and the rollback.
func (d *Detail) ApplyStatus(status api.TicketStatus) {
	if d.ticket != nil {
		d.ticket.Status = status
	}
}

func nextStatus(s api.TicketStatus) api.TicketStatus {
	for i, candidate := range api.Statuses {
		if candidate == s {
			return api.Statuses[(i+1)%len(api.Statuses)]
		}
	}
	return api.StatusOpen
}

// Update handles keys and emits host messages
func (d *Detail) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	d.notice = ""

	if d.input.Focused() {
		switch keyMsg.String() {
		case "esc":
			d.input.Blur()
			return nil
		case "enter":
			text := strings.TrimSpace(d.input.Value())
			d.input.SetValue("")
			d.input.Blur()
			if text == "" {
				return nil
			}
			return emit(CommentMsg{TicketID: d.id, Text: text})
		default:
			var cmd tea.Cmd
			d.input, cmd = d.input.Update(msg)
			return cmd
		}
	}

	switch keyMsg.String() {
	case "esc", "backspace":
		return emit(BackMsg{})
	case "r":
		return emit(RefreshMsg{ID: d.id})
	case "c":
		d.input.Focus()
		return textinput.Blink
	case "s":
		if d.ticket != nil {
			return emit(StatusChangeMsg{
				ID:   d.ticket.ID,
				From: d.ticket.Status,
				To:   nextStatus(d.ticket.Status),
			})
		}
	}
	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders exactly one of loading, error, or data
func (d *Detail) View() string {
	var sb strings.Builder

	switch {
	case d.loading:
		sb.WriteString(styles.Title.Render(fmt.Sprintf("Ticket #%d", d.id)))
		sb.WriteString("\nLoading ticket...\n")
	case d.errMsg != "":
		sb.WriteString(styles.Title.Render(fmt.Sprintf("Ticket #%d", d.id)))
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorStyle.Render("Error: " + d.errMsg))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("press r to retry, esc to go back"))
	default:
		sb.WriteString(d.renderTicket())
	}

	if d.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorStyle.Render(d.notice))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("s advance status · c comment · r refresh · esc back"))
	return sb.String()
}

func (d *Detail) renderTicket() string {
	t := d.ticket
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("Ticket #%d: %s", t.ID, t.Subject)))
	sb.WriteString("\n")
	sb.WriteString(widgets.StatusBadge(t.Status))
	sb.WriteString(" ")
	sb.WriteString(widgets.PriorityBadge(t.Priority))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Customer:   %s %s <%s>\n", t.Customer.FirstName, t.Customer.LastName, t.Customer.Email))
	sb.WriteString(fmt.Sprintf("Department: %s\n", t.Department.Name))
	if t.AssignedAgent != nil {
		sb.WriteString(fmt.Sprintf("Assignee:   %s %s\n", t.AssignedAgent.FirstName, t.AssignedAgent.LastName))
	} else {
		sb.WriteString("Assignee:   unassigned\n")
	}
	sb.WriteString(styles.Dim.Render(fmt.Sprintf("opened %s · updated %s", humanize.Time(t.CreatedAt), humanize.Time(t.UpdatedAt))))
	sb.WriteString("\n\n")
	sb.WriteString(t.Description)
	sb.WriteString("\n\n")

	sb.WriteString(styles.ValueStyle.Render(fmt.Sprintf("%s Comments (%d)", icons.Comment, len(d.comments))))
	sb.WriteString("\n")
	for _, c := range d.comments {
		sb.WriteString(fmt.Sprintf("%s %s %s %s\n  %s\n",
			styles.Dim.Render(humanize.Time(c.CreatedAt)),
			c.AuthorFirstName, c.AuthorLastName,
			widgets.RoleBadge(c.AuthorRole),
			c.Comment,
		))
	}

	sb.WriteString("\n")
	sb.WriteString(d.input.View())
	sb.WriteString("\n")
	return sb.String()
}
