// ABOUTME: Login screen as a bubbletea model wrapping a huh form
// ABOUTME: Emits SubmitMsg with credentials; the host runs the actual login call

package login

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/crmdesk/cli/internal/tui/icons"
	"github.com/crmdesk/cli/internal/tui/styles"
)

// SubmitMsg is sent when the user submits the form
type SubmitMsg struct {
	Email    string
	Password string
}

// Login is the credential entry screen
type Login struct {
	form     *huh.Form
	email    string
	password string
	errMsg   string
	busy     bool
	width    int
}

// New creates a fresh login form
func New() *Login {
	l := &Login{}
	l.reset()
	return l
}

func (l *Login) reset() {
	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&l.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&l.password),
		),
	).WithTheme(huh.ThemeBase())
}

// Init implements tea.Model-style initialization for the embedded form
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// SetError shows a failed login message and re-arms the form. The prior
// session state is untouched; the user just tries again.
func (l *Login) SetError(msg string) {
	l.errMsg = msg
	l.busy = false
	l.password = ""
	l.reset()
}

// SetBusy marks the form as waiting on the backend
func (l *Login) SetBusy() {
	l.busy = true
}

// SetSize updates the available width
func (l *Login) SetSize(width int) {
	l.width = width
}

// Update advances the form and emits SubmitMsg on completion
func (l *Login) Update(msg tea.Msg) tea.Cmd {
	if l.busy {
		return nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		email, password := l.email, l.password
		l.busy = true
		return tea.Batch(cmd, func() tea.Msg {
			return SubmitMsg{Email: email, Password: password}
		})
	}
	return cmd
}

// View renders the login screen
func (l *Login) View() string {
	var body string
	body += styles.Title.Render(icons.Lock.String()+" crmdesk") + "\n"
	body += styles.Subtitle.Render("Sign in to the support desk") + "\n\n"

	if l.busy {
		body += "Signing in...\n"
	} else {
		body += l.form.View()
	}

	if l.errMsg != "" {
		body += "\n" + styles.ErrorStyle.Render(l.errMsg) + "\n"
	}

	panel := styles.Panel.Render(body)
	if l.width > 0 {
		return lipgloss.Place(l.width, lipgloss.Height(panel)+2, lipgloss.Center, lipgloss.Top, panel)
	}
	return panel
}
