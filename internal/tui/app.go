// ABOUTME: Root TUI model owning the session, query runner, and screens
// ABOUTME: Runs fetches and mutations as commands; screens only render state

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/config"
	"github.com/crmdesk/cli/internal/query"
	"github.com/crmdesk/cli/internal/session"
	"github.com/crmdesk/cli/internal/tui/debuglog"
	"github.com/crmdesk/cli/internal/tui/departments"
	"github.com/crmdesk/cli/internal/tui/icons"
	"github.com/crmdesk/cli/internal/tui/login"
	"github.com/crmdesk/cli/internal/tui/styles"
	"github.com/crmdesk/cli/internal/tui/ticketdetail"
	"github.com/crmdesk/cli/internal/tui/ticketlist"
	"github.com/crmdesk/cli/internal/tui/widgets"
)

type screen int

const (
	screenLogin screen = iota
	screenTickets
	screenDetail
	screenDepartments
)

const fetchTimeout = 30 * time.Second

// Result messages produced by fetch and mutation commands. A nil-msg
// command is used when a superseded fetch must be silently dropped.
type (
	loginResultMsg struct {
		err error
	}
	ticketsLoadedMsg struct {
		tickets []api.Ticket
		sortBy  string
		err     error
	}
	detailLoadedMsg struct {
		id       int64
		ticket   *api.Ticket
		comments []api.TicketComment
		err      error
	}
	departmentsLoadedMsg struct {
		departments []api.Department
		err         error
	}
	statusResultMsg struct {
		id  int64
		err error
		// from is the pre-update status, needed for the rollback notice
		from api.TicketStatus
	}
	commentResultMsg struct {
		ticketID int64
		err      error
	}
	departmentMutatedMsg struct {
		action string
		err    error
	}
)

// App is the root bubbletea model
type App struct {
	cfg     *config.Config
	client  *api.Client
	store   *session.Store
	queries *query.Runner

	screen      screen
	login       *login.Login
	tickets     *ticketlist.TicketList
	detail      *ticketdetail.Detail
	departments *departments.Departments

	width  int
	height int
}

// New creates the root model. The session store must already be
// bootstrapped.
func New(cfg *config.Config, client *api.Client, store *session.Store, queries *query.Runner) *App {
	app := &App{
		cfg:     cfg,
		client:  client,
		store:   store,
		queries: queries,
		login:   login.New(),
		tickets: ticketlist.New(),
		screen:  screenLogin,
	}
	if store.IsAuthenticated() {
		app.screen = screenTickets
	}
	return app
}

func (a *App) Init() tea.Cmd {
	if a.screen == screenTickets {
		return tea.Batch(a.fetchTickets(), textinput.Blink)
	}
	return a.login.Init()
}

// fetchTickets builds the query key from the list's current filter
// state and runs the keyed fetch. A superseded result yields a nil
// message so the screen keeps whatever newer fetch committed.
func (a *App) fetchTickets() tea.Cmd {
	filter, sortBy := a.tickets.Filter()
	key := query.NewKey(query.ResourceTickets, map[string]string{
		"search":   filter.Search,
		"status":   string(filter.Status),
		"priority": string(filter.Priority),
		"sort":     sortBy,
	})
	enabled := a.store.IsAuthenticated()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		tickets, err := query.Fetch(ctx, a.queries, key, enabled, func(ctx context.Context) ([]api.Ticket, error) {
			return a.client.FindTickets(ctx, filter)
		})
		if err == query.ErrSuperseded || err == query.ErrDisabled {
			return nil
		}
		return ticketsLoadedMsg{tickets: tickets, sortBy: sortBy, err: err}
	}
}

func (a *App) fetchDetail(id int64) tea.Cmd {
	ticketKey := query.NewKey(query.ResourceTickets, map[string]string{"id": fmt.Sprint(id)})
	commentKey := query.NewKey(query.ResourceComments, map[string]string{"ticketId": fmt.Sprint(id)})
	enabled := a.store.IsAuthenticated()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		ticket, err := query.Fetch(ctx, a.queries, ticketKey, enabled, func(ctx context.Context) (*api.Ticket, error) {
			return a.client.GetTicket(ctx, id)
		})
		if err == query.ErrSuperseded || err == query.ErrDisabled {
			return nil
		}
		if err != nil {
			return detailLoadedMsg{id: id, err: err}
		}

		comments, err := query.Fetch(ctx, a.queries, commentKey, enabled, func(ctx context.Context) ([]api.TicketComment, error) {
			return a.client.CommentsByTicket(ctx, id)
		})
		if err == query.ErrSuperseded || err == query.ErrDisabled {
			return nil
		}
		if err != nil {
			return detailLoadedMsg{id: id, err: err}
		}
		return detailLoadedMsg{id: id, ticket: ticket, comments: comments}
	}
}

func (a *App) fetchDepartments() tea.Cmd {
	key := query.NewKey(query.ResourceDepartments, nil)
	enabled := a.store.IsAuthenticated()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		depts, err := query.Fetch(ctx, a.queries, key, enabled, func(ctx context.Context) ([]api.Department, error) {
			return a.client.FindDepartments(ctx, api.DepartmentFilter{})
		})
		if err == query.ErrSuperseded || err == query.ErrDisabled {
			return nil
		}
		return departmentsLoadedMsg{departments: depts, err: err}
	}
}

func (a *App) runLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return loginResultMsg{err: a.store.Login(ctx, email, password)}
	}
}

// changeStatus runs the optimistic status mutation. Apply already
// happened on the screen before this command was issued; the revert
// path is driven from the result message.
func (a *App) changeStatus(id int64, to api.TicketStatus, from api.TicketStatus) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceTickets}, func(ctx context.Context) error {
			_, err := a.client.UpdateTicketStatus(ctx, id, to)
			return err
		})
		return statusResultMsg{id: id, err: err, from: from}
	}
}

func (a *App) addComment(ticketID int64, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceComments}, func(ctx context.Context) error {
			_, err := a.client.CreateComment(ctx, api.CommentInput{TicketID: ticketID, Comment: text})
			return err
		})
		return commentResultMsg{ticketID: ticketID, err: err}
	}
}

func (a *App) createDepartment(input api.DepartmentInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceDepartments}, func(ctx context.Context) error {
			_, err := a.client.CreateDepartment(ctx, input)
			return err
		})
		return departmentMutatedMsg{action: "create", err: err}
	}
}

func (a *App) deleteDepartment(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceDepartments}, func(ctx context.Context) error {
			return a.client.DeleteDepartment(ctx, id)
		})
		return departmentMutatedMsg{action: "delete", err: err}
	}
}

func (a *App) logout() {
	a.store.Logout()
	a.login = login.New()
	a.tickets = ticketlist.New()
	a.detail = nil
	a.departments = nil
	a.screen = screenLogin
	debuglog.Log("logged out, returning to login screen")
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login.SetSize(msg.Width)
		a.tickets.SetSize(msg.Width, msg.Height)
		if a.detail != nil {
			a.detail.SetSize(msg.Width)
		}
		if a.departments != nil {
			a.departments.SetSize(msg.Width, msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+l":
			if a.screen != screenLogin {
				a.logout()
				return a, a.login.Init()
			}
		case "ctrl+d":
			if a.screen == screenTickets && a.store.HasRole(api.RoleAdmin) {
				a.departments = departments.New()
				a.departments.SetSize(a.width, a.height)
				a.screen = screenDepartments
				return a, a.fetchDepartments()
			}
		}

	// Child screen requests.
	case login.SubmitMsg:
		a.login.SetBusy()
		return a, a.runLogin(msg.Email, msg.Password)

	case ticketlist.FilterChangedMsg:
		a.tickets.SetLoading()
		return a, a.fetchTickets()

	case ticketlist.RefreshMsg:
		a.queries.Invalidate(query.ResourceTickets)
		a.tickets.SetLoading()
		return a, a.fetchTickets()

	case ticketlist.OpenMsg:
		a.detail = ticketdetail.New(msg.ID)
		a.detail.SetSize(a.width)
		a.screen = screenDetail
		return a, a.fetchDetail(msg.ID)

	case ticketlist.StatusChangeMsg:
		a.tickets.ApplyStatus(msg.ID, msg.To)
		return a, a.changeStatus(msg.ID, msg.To, msg.From)

	case ticketdetail.BackMsg:
		a.detail = nil
		a.screen = screenTickets
		a.tickets.SetLoading()
		return a, a.fetchTickets()

	case ticketdetail.RefreshMsg:
		a.queries.Invalidate(query.ResourceTickets)
		a.queries.Invalidate(query.ResourceComments)
		if a.detail != nil {
			a.detail.SetLoading()
		}
		return a, a.fetchDetail(msg.ID)

	case ticketdetail.StatusChangeMsg:
		if a.detail != nil {
			a.detail.ApplyStatus(msg.To)
		}
		return a, a.changeStatus(msg.ID, msg.To, msg.From)

	case ticketdetail.CommentMsg:
		return a, a.addComment(msg.TicketID, msg.Text)

	case departments.BackMsg:
		a.departments = nil
		a.screen = screenTickets
		a.tickets.SetLoading()
		return a, a.fetchTickets()

	case departments.RefreshMsg:
		a.queries.Invalidate(query.ResourceDepartments)
		if a.departments != nil {
			a.departments.SetLoading()
		}
		return a, a.fetchDepartments()

	case departments.CreateMsg:
		return a, a.createDepartment(msg.Input)

	case departments.DeleteMsg:
		return a, a.deleteDepartment(msg.ID)

	// Command results.
	case loginResultMsg:
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			a.login.SetError(msg.err.Error())
			return a, a.login.Init()
		}
		a.screen = screenTickets
		a.tickets = ticketlist.New()
		a.tickets.SetSize(a.width, a.height)
		return a, a.fetchTickets()

	case ticketsLoadedMsg:
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("fetch tickets", msg.err)
			a.tickets.SetError(msg.err.Error())
			return a, nil
		}
		sorted := make([]api.Ticket, len(msg.tickets))
		copy(sorted, msg.tickets)
		api.SortTickets(sorted, msg.sortBy)
		a.tickets.SetTickets(sorted)
		return a, nil

	case detailLoadedMsg:
		if a.detail == nil || a.detail.ID() != msg.id {
			return a, nil
		}
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("fetch ticket detail", msg.err)
			a.detail.SetError(msg.err.Error())
			return a, nil
		}
		a.detail.SetData(msg.ticket, msg.comments)
		return a, nil

	case departmentsLoadedMsg:
		if a.departments == nil {
			return a, nil
		}
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("fetch departments", msg.err)
			a.departments.SetError(msg.err.Error())
			return a, nil
		}
		a.departments.SetDepartments(msg.departments)
		return a, nil

	case statusResultMsg:
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("update status", msg.err)
			// Roll the optimistic update back on whichever screen shows it.
			a.tickets.ApplyStatus(msg.id, msg.from)
			if a.detail != nil && a.detail.ID() == msg.id {
				a.detail.ApplyStatus(msg.from)
				a.detail.SetNotice("status update failed: " + msg.err.Error())
			} else {
				a.tickets.SetNotice("status update failed: " + msg.err.Error())
			}
			return a, nil
		}
		if a.screen == screenDetail && a.detail != nil && a.detail.ID() == msg.id {
			return a, a.fetchDetail(msg.id)
		}
		a.tickets.SetLoading()
		return a, a.fetchTickets()

	case commentResultMsg:
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error("add comment", msg.err)
			if a.detail != nil {
				a.detail.SetNotice("comment failed: " + msg.err.Error())
			}
			return a, nil
		}
		if a.detail != nil && a.detail.ID() == msg.ticketID {
			a.detail.SetLoading()
			return a, a.fetchDetail(msg.ticketID)
		}
		return a, nil

	case departmentMutatedMsg:
		if a.sessionExpired(msg.err) {
			return a, nil
		}
		if a.departments == nil {
			return a, nil
		}
		if msg.err != nil {
			debuglog.Error(msg.action+" department", msg.err)
			// Conflict messages come through verbatim, e.g. a department
			// that still has agents or tickets attached.
			a.departments.SetNotice(msg.err.Error())
			return a, nil
		}
		a.departments.SetLoading()
		return a, a.fetchDepartments()
	}

	return a, a.updateScreen(msg)
}

// sessionExpired routes a 401 back to the login screen. The transport
// already cleared the stored token; this switches the UI to match.
func (a *App) sessionExpired(err error) bool {
	if err == nil || !api.IsUnauthorized(err) {
		return false
	}
	debuglog.Log("session expired, returning to login screen")
	a.logout()
	a.login.SetError("Session expired, please log in again")
	return true
}

func (a *App) updateScreen(msg tea.Msg) tea.Cmd {
	switch a.screen {
	case screenLogin:
		return a.login.Update(msg)
	case screenTickets:
		return a.tickets.Update(msg)
	case screenDetail:
		if a.detail != nil {
			return a.detail.Update(msg)
		}
	case screenDepartments:
		if a.departments != nil {
			return a.departments.Update(msg)
		}
	}
	return nil
}

func (a *App) View() string {
	if a.screen == screenLogin {
		return a.login.View()
	}

	var sb strings.Builder
	sb.WriteString(a.header())
	sb.WriteString("\n")

	switch a.screen {
	case screenTickets:
		sb.WriteString(a.tickets.View())
	case screenDetail:
		if a.detail != nil {
			sb.WriteString(a.detail.View())
		}
	case screenDepartments:
		if a.departments != nil {
			sb.WriteString(a.departments.View())
		}
	}
	return sb.String()
}

func (a *App) header() string {
	user := a.store.User()
	if user == nil {
		return styles.Title.Render("crmdesk")
	}

	badges := make([]string, 0, len(user.Roles))
	for _, role := range []string{api.RoleAdmin, api.RoleAgent, api.RoleCustomer} {
		if user.HasRole(role) {
			badges = append(badges, widgets.RoleBadge(role))
		}
	}

	left := styles.Title.Render("crmdesk")
	right := fmt.Sprintf("%s %s %s  %s", icons.User, user.FullName(), strings.Join(badges, " "), styles.Help.Render("ctrl+l logout"))
	if a.width > 0 {
		gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap > 1 {
			return left + strings.Repeat(" ", gap) + right
		}
	}
	return left + "  " + right
}
