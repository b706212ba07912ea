// ABOUTME: Launches the interactive terminal UI
// ABOUTME: Redirects logging to a debug file so slog output cannot corrupt the screen

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/crmdesk/cli/internal/logger"
	"github.com/crmdesk/cli/internal/tui"
	"github.com/crmdesk/cli/internal/tui/debuglog"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal UI",
	Long: `Open the full-screen terminal UI.

Browse and filter tickets, open a ticket to read and add comments,
advance ticket status, and (as an admin) manage departments. Log in
directly from the UI when no session is stored.`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runUI())
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI() int {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// While the TUI owns the terminal, structured logs go to the debug
	// file instead of stderr.
	if err := debuglog.Init(a.cfg.ConfigDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
	}
	defer debuglog.Close()
	logger.InitWriter(debuglog.Writer())

	model := tui.New(a.cfg, a.client, a.store, a.queries)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running UI: %v\n", err)
		return 1
	}
	return 0
}
