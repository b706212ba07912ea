// ABOUTME: Customer commands for the crmdesk CLI
// ABOUTME: List, get, create, update, and delete customers

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/query"
)

var (
	customerName  string
	customerInput api.CustomerInput
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Browse and manage customers",
}

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers, optionally filtered by name",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			filter := api.CustomerFilter{Name: customerName}
			key := query.NewKey(query.ResourceCustomers, map[string]string{"name": filter.Name})
			customers, err := query.Fetch(ctx, a.queries, key, a.store.IsAuthenticated(), func(ctx context.Context) ([]api.Customer, error) {
				return a.client.FindCustomers(ctx, filter)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, customers)
				return 0
			}
			if len(customers) == 0 {
				fmt.Fprintln(w, "No customers found.")
				return 0
			}
			for _, c := range customers {
				fmt.Fprintf(w, "%-5d %-25s %-30s %-15s joined %s\n",
					c.ID, c.FirstName+" "+c.LastName, c.Email, c.Phone, humanize.Time(c.CreatedAt))
			}
			return 0
		})
	},
}

var customersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			id, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			customer, err := a.client.GetCustomer(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, customer)
				return 0
			}
			fmt.Fprintf(w, "Customer #%d\n", customer.ID)
			fmt.Fprintf(w, "Name:    %s %s\n", customer.FirstName, customer.LastName)
			fmt.Fprintf(w, "Email:   %s\n", customer.Email)
			fmt.Fprintf(w, "Phone:   %s\n", customer.Phone)
			fmt.Fprintf(w, "Created: %s\n", humanize.Time(customer.CreatedAt))
			return 0
		})
	},
}

var customersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a customer",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var created *api.Customer
			err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceCustomers}, func(ctx context.Context) error {
				var err error
				created, err = a.client.CreateCustomer(ctx, customerInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, created)
			} else {
				fmt.Fprintf(w, "Created customer #%d\n", created.ID)
			}
			return 0
		})
	},
}

var customersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			id, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var updated *api.Customer
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceCustomers}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateCustomer(ctx, id, customerInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Updated customer #%d\n", updated.ID)
			}
			return 0
		})
	},
}

var customersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			id, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceCustomers}, func(ctx context.Context) error {
				return a.client.DeleteCustomer(ctx, id)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			fmt.Fprintf(w, "Deleted customer #%d\n", id)
			return 0
		})
	},
}

func init() {
	customersListCmd.Flags().StringVar(&customerName, "name", "", "Filter by customer name")

	for _, c := range []*cobra.Command{customersCreateCmd, customersUpdateCmd} {
		c.Flags().StringVar(&customerInput.FirstName, "first-name", "", "First name")
		c.Flags().StringVar(&customerInput.LastName, "last-name", "", "Last name")
		c.Flags().StringVar(&customerInput.Email, "email", "", "Email address")
		c.Flags().StringVar(&customerInput.Phone, "phone", "", "Phone number")
	}

	customersCmd.AddCommand(customersListCmd, customersGetCmd, customersCreateCmd, customersUpdateCmd, customersDeleteCmd)
	rootCmd.AddCommand(customersCmd)
}

// runResource wires the signal context and app for a resource command
func runResource(fn func(ctx context.Context, a *app, w io.Writer) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if code := fn(ctx, a, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

// parseID parses a numeric resource identifier argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
