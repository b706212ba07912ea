// ABOUTME: Login command for the crmdesk CLI
// ABOUTME: Exchanges credentials for a bearer token and persists it

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the CRM backend",
	Long:  `Authenticate against the CRM backend and store the returned bearer token for subsequent commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (prompted if omitted)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, w io.Writer) int {
	a, err := newApp()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	email, password := loginEmail, loginPassword
	if email == "" || password == "" {
		if err := promptCredentials(&email, &password); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 1
		}
	}

	if err := a.store.Login(ctx, email, password); err != nil {
		// Backend message surfaces verbatim; prior session state is untouched.
		fmt.Fprintf(w, "Login failed: %v\n", err)
		return 2
	}

	user := a.store.User()
	fmt.Fprintf(w, "Logged in as %s <%s> [%s]\n", user.FullName(), user.Email, roleList(user.Roles))
	return 0
}

// promptCredentials asks interactively for whichever credential is missing
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password))
	}

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase())
	return form.Run()
}

func roleList(roles map[string]struct{}) string {
	names := make([]string, 0, len(roles))
	for r := range roles {
		names = append(names, r)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
