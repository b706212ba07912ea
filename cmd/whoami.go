// ABOUTME: Whoami command for the crmdesk CLI
// ABOUTME: Shows the identity decoded from the stored bearer token

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

type whoamiOutput struct {
	Authenticated bool     `json:"authenticated"`
	ID            int64    `json:"id,omitempty"`
	Email         string   `json:"email,omitempty"`
	FirstName     string   `json:"firstName,omitempty"`
	LastName      string   `json:"lastName,omitempty"`
	Roles         []string `json:"roles,omitempty"`
}

func runWhoami(w io.Writer) int {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	if !a.store.IsAuthenticated() {
		if IsJSONOutput() {
			printJSON(w, whoamiOutput{Authenticated: false})
		} else {
			fmt.Fprintln(w, "Not logged in.")
		}
		return 2
	}

	user := a.store.User()
	if IsJSONOutput() {
		roles := make([]string, 0, len(user.Roles))
		for r := range user.Roles {
			roles = append(roles, r)
		}
		printJSON(w, whoamiOutput{
			Authenticated: true,
			ID:            user.ID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			Roles:         roles,
		})
		return 0
	}

	fmt.Fprintf(w, "%s <%s>\n", user.FullName(), user.Email)
	fmt.Fprintf(w, "Roles: %s\n", roleList(user.Roles))
	return 0
}
