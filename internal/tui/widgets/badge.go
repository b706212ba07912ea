// ABOUTME: Status and priority badge widgets for ticket rows
// ABOUTME: Provides colored inline badges keyed to the backend enums

package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/crmdesk/cli/internal/api"
)

// Badge colors
var (
	badgeOpenBg       = lipgloss.Color("#3B82F6") // blue
	badgeInProgressBg = lipgloss.Color("#F59E0B") // amber
	badgeOnHoldBg     = lipgloss.Color("#6B7280") // gray
	badgeResolvedBg   = lipgloss.Color("#10B981") // green
	badgeClosedBg     = lipgloss.Color("#374151") // dark gray
	badgeUrgentBg     = lipgloss.Color("#EF4444") // red
	badgeNeutralBg    = lipgloss.Color("#6B7280")

	badgeLightFg = lipgloss.Color("#FFFFFF")
	badgeDarkFg  = lipgloss.Color("#000000")
)

// Badge renders a colored inline badge
func Badge(text string, bg, fg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusBadge renders a ticket status badge in its lifecycle color
func StatusBadge(status api.TicketStatus) string {
	switch status {
	case api.StatusOpen:
		return Badge("OPEN", badgeOpenBg, badgeLightFg)
	case api.StatusInProgress:
		return Badge("IN_PROGRESS", badgeInProgressBg, badgeDarkFg)
	case api.StatusOnHold:
		return Badge("ON_HOLD", badgeOnHoldBg, badgeLightFg)
	case api.StatusResolved:
		return Badge("RESOLVED", badgeResolvedBg, badgeLightFg)
	case api.StatusClosed:
		return Badge("CLOSED", badgeClosedBg, badgeLightFg)
	default:
		return Badge(string(status), badgeNeutralBg, badgeLightFg)
	}
}

// PriorityBadge renders a ticket priority badge, hotter color per urgency
func PriorityBadge(priority api.TicketPriority) string {
	switch priority {
	case api.PriorityLow:
		return Badge("LOW", badgeResolvedBg, badgeLightFg)
	case api.PriorityMedium:
		return Badge("MEDIUM", badgeOpenBg, badgeLightFg)
	case api.PriorityHigh:
		return Badge("HIGH", badgeInProgressBg, badgeDarkFg)
	case api.PriorityUrgent:
		return Badge("URGENT", badgeUrgentBg, badgeLightFg)
	default:
		return Badge(string(priority), badgeNeutralBg, badgeLightFg)
	}
}

// RoleBadge renders a user role badge for headers and comments
func RoleBadge(role string) string {
	switch role {
	case api.RoleAdmin:
		return Badge("ADMIN", badgeUrgentBg, badgeLightFg)
	case api.RoleAgent:
		return Badge("AGENT", badgeOpenBg, badgeLightFg)
	case api.RoleCustomer:
		return Badge("CUSTOMER", badgeOnHoldBg, badgeLightFg)
	default:
		return Badge(role, badgeNeutralBg, badgeLightFg)
	}
}
