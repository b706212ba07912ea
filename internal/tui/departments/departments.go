// ABOUTME: Department management screen for admin users
// ABOUTME: Lists departments with inline create form and delete handling

package departments

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/tui/icons"
	"github.com/crmdesk/cli/internal/tui/styles"
)

// BackMsg asks the host to return to the ticket list
type BackMsg struct{}

// RefreshMsg asks the host to refetch the department list
type RefreshMsg struct{}

// CreateMsg asks the host to create a department
type CreateMsg struct {
	Input api.DepartmentInput
}

// DeleteMsg asks the host to delete the selected department
type DeleteMsg struct {
	ID int64
}

// Departments renders the admin department list with a create form
type Departments struct {
	departments []api.Department
	cursor      int
	loading     bool
	errMsg      string
	notice      string

	form     *huh.Form
	creating bool
	name     string
	desc     string

	width  int
	height int
}

// New creates a departments screen in loading state
func New() *Departments {
	return &Departments{loading: true}
}

// SetLoading puts the screen back into the loading state
func (d *Departments) SetLoading() {
	d.loading = true
	d.errMsg = ""
}

// SetDepartments commits fetched data
func (d *Departments) SetDepartments(departments []api.Department) {
	d.departments = departments
	d.loading = false
	d.errMsg = ""
	if d.cursor >= len(departments) {
		d.cursor = 0
	}
}

// SetError shows the per-screen error state
func (d *Departments) SetError(msg string) {
	d.loading = false
	d.errMsg = msg
}

// SetNotice shows a transient message, e.g. a delete conflict
func (d *Departments) SetNotice(msg string) {
	d.notice = msg
}

// SetSize updates the available dimensions
func (d *Departments) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Selected returns the department under the cursor, or nil
func (d *Departments) Selected() *api.Department {
	if d.cursor < 0 || d.cursor >= len(d.departments) {
		return nil
	}
	return &d.departments[d.cursor]
}

func (d *Departments) newForm() *huh.Form {
	d.name = ""
	d.desc = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&d.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&d.desc),
		),
	).WithTheme(huh.ThemeBase())
}

// Update handles keys and emits host messages
func (d *Departments) Update(msg tea.Msg) tea.Cmd {
	if d.creating {
		return d.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	d.notice = ""

	switch keyMsg.String() {
	case "esc", "backspace":
		return emit(BackMsg{})
	case "r":
		return emit(RefreshMsg{})
	case "n":
		d.creating = true
		d.form = d.newForm()
		return d.form.Init()
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.departments)-1 {
			d.cursor++
		}
	case "d":
		if sel := d.Selected(); sel != nil {
			return emit(DeleteMsg{ID: sel.ID})
		}
	}
	return nil
}

func (d *Departments) updateForm(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		d.creating = false
		d.form = nil
		return nil
	}

	model, cmd := d.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		d.form = form
	}

	if d.form.State == huh.StateCompleted {
		d.creating = false
		input := api.DepartmentInput{
			Name:        strings.TrimSpace(d.name),
			Description: strings.TrimSpace(d.desc),
		}
		d.form = nil
		return tea.Batch(cmd, emit(CreateMsg{Input: input}))
	}
	return cmd
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders exactly one of loading, error, or data
func (d *Departments) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Department.String() + " Departments"))
	sb.WriteString("\n")

	switch {
	case d.creating:
		sb.WriteString(styles.Subtitle.Render("New department"))
		sb.WriteString("\n")
		sb.WriteString(d.form.View())
		return sb.String()
	case d.loading:
		sb.WriteString("Loading departments...\n")
	case d.errMsg != "":
		sb.WriteString(styles.ErrorStyle.Render("Error: " + d.errMsg))
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("press r to retry, esc to go back"))
		return sb.String()
	case len(d.departments) == 0:
		sb.WriteString(styles.Dim.Render("No departments."))
		sb.WriteString("\n")
	default:
		for i, dept := range d.departments {
			line := fmt.Sprintf("%-4d %-24s %s", dept.ID, dept.Name, styles.Dim.Render(dept.Description))
			if i == d.cursor {
				line = styles.SelectedRow.Render(line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	if d.notice != "" {
		sb.WriteString(styles.ErrorStyle.Render(d.notice))
		sb.WriteString("\n")
	}
	sb.WriteString(styles.Help.Render("n new · d delete · r refresh · esc back"))
	return sb.String()
}
