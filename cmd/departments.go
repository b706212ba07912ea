// ABOUTME: Department commands for the crmdesk CLI
// ABOUTME: Management actions are ADMIN-gated; delete conflicts surface verbatim

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/query"
)

var (
	departmentName  string
	departmentInput api.DepartmentInput
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Browse and manage departments",
}

var departmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List departments, optionally filtered by name",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			key := query.NewKey(query.ResourceDepartments, map[string]string{"name": departmentName})
			departments, err := query.Fetch(ctx, a.queries, key, a.store.IsAuthenticated(), func(ctx context.Context) ([]api.Department, error) {
				return a.client.FindDepartments(ctx, api.DepartmentFilter{Name: departmentName})
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, departments)
				return 0
			}
			if len(departments) == 0 {
				fmt.Fprintln(w, "No departments found.")
				return 0
			}
			for _, d := range departments {
				fmt.Fprintf(w, "%-5d %-25s %s\n", d.ID, d.Name, d.Description)
			}
			return 0
		})
	},
}

var departmentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one department",
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

			department, err := a.client.GetDepartment(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, department)
				return 0
			}
			fmt.Fprintf(w, "Department #%d\n", department.ID)
			fmt.Fprintf(w, "Name:        %s\n", department.Name)
			fmt.Fprintf(w, "Description: %s\n", department.Description)
			return 0
		})
	},
}

var departmentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a department (admin only)",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAdmin(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var created *api.Department
			err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceDepartments}, func(ctx context.Context) error {
				var err error
				created, err = a.client.CreateDepartment(ctx, departmentInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, created)
			} else {
				fmt.Fprintf(w, "Created department #%d\n", created.ID)
			}
			return 0
		})
	},
}

var departmentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a department (admin only)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAdmin(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			id, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var updated *api.Department
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceDepartments}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateDepartment(ctx, id, departmentInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Updated department #%d\n", updated.ID)
			}
			return 0
		})
	},
}

var departmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a department (admin only)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAdmin(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			id, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceDepartments}, func(ctx context.Context) error {
				return a.client.DeleteDepartment(ctx, id)
			})
			if err != nil {
				// A referenced department is rejected by the backend;
				// its message prints unchanged.
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			fmt.Fprintf(w, "Deleted department #%d\n", id)
			return 0
		})
	},
}

func init() {
	departmentsListCmd.Flags().StringVar(&departmentName, "name", "", "Filter by department name")

	for _, c := range []*cobra.Command{departmentsCreateCmd, departmentsUpdateCmd} {
		c.Flags().StringVar(&departmentInput.Name, "name", "", "Department name")
		c.Flags().StringVar(&departmentInput.Description, "description", "", "Department description")
	}

	departmentsCmd.AddCommand(departmentsListCmd, departmentsGetCmd, departmentsCreateCmd, departmentsUpdateCmd, departmentsDeleteCmd)
	rootCmd.AddCommand(departmentsCmd)
}
