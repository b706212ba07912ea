// ABOUTME: Root command for the crmdesk CLI
// ABOUTME: Handles global flags and wires config, client, session, and query layers

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/config"
	"github.com/crmdesk/cli/internal/logger"
	"github.com/crmdesk/cli/internal/query"
	"github.com/crmdesk/cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "crmdesk",
	Short: "Terminal client for the support-ticket CRM",
	Long: `crmdesk is a terminal client for the support-ticket CRM backend.

Agents log in, browse and filter customers, agents, departments, and
tickets, and update ticket status and comments from the command line or
the interactive UI (crmdesk ui).

Environment Variables:
  CRMDESK_API_URL     Backend API URL (default: http://localhost:8080)
  CRMDESK_CONFIG_DIR  Directory for the stored token (default: ~/.config/crmdesk)
  CRMDESK_CACHE_TTL   Query staleness window in seconds (default: 300)
  CRMDESK_TIMEOUT     Per-request timeout in seconds (default: 30)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CRMDESK_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// app bundles the wired layers every command needs
type app struct {
	cfg     *config.Config
	client  *api.Client
	store   *session.Store
	queries *query.Runner
}

// newApp loads configuration, restores the session from the persisted
// token, and builds the shared API client and query runner.
func newApp() (*app, error) {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}

	tokens := session.NewTokenFile(cfg.ConfigDir)
	client := api.NewWithTimeout(cfg.APIURL, tokens, time.Duration(cfg.RequestTimeout)*time.Second)
	store := session.New(tokens, client)
	store.Bootstrap()

	return &app{
		cfg:     cfg,
		client:  client,
		store:   store,
		queries: query.NewRunner(time.Duration(cfg.CacheTTL) * time.Second),
	}, nil
}

// requireAuth fails when no valid session is present
func (a *app) requireAuth() error {
	if !a.store.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'crmdesk login' first")
	}
	return nil
}

// requireAdmin gates admin-only actions on the decoded role set
func (a *app) requireAdmin() error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if !a.store.HasRole(api.RoleAdmin) {
		return fmt.Errorf("this action requires the %s role", api.RoleAdmin)
	}
	return nil
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}
