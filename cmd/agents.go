// ABOUTME: Agent commands for the crmdesk CLI
// ABOUTME: Listing is open to any agent; create/update/delete require ADMIN

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
	agentFilter api.AgentFilter
	agentInput  api.AgentInput
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Browse and manage support agents",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents, optionally filtered by name or department",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			key := query.NewKey(query.ResourceAgents, map[string]string{
				"name":       agentFilter.Name,
				"department": agentFilter.Department,
			})
			agents, err := query.Fetch(ctx, a.queries, key, a.store.IsAuthenticated(), func(ctx context.Context) ([]api.Agent, error) {
				return a.client.FindAgents(ctx, agentFilter)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, agents)
				return 0
			}
			if len(agents) == 0 {
				fmt.Fprintln(w, "No agents found.")
				return 0
			}
			for _, ag := range agents {
				fmt.Fprintf(w, "%-5d %-25s %-30s %s\n",
					ag.ID, ag.FirstName+" "+ag.LastName, ag.Email, ag.DepartmentName)
			}
			return 0
		})
	},
}

var agentsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one agent",
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

			agent, err := a.client.GetAgent(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, agent)
				return 0
			}
			fmt.Fprintf(w, "Agent #%d\n", agent.ID)
			fmt.Fprintf(w, "Name:       %s %s\n", agent.FirstName, agent.LastName)
			fmt.Fprintf(w, "Email:      %s\n", agent.Email)
			fmt.Fprintf(w, "Department: %s\n", agent.DepartmentName)
			return 0
		})
	},
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent (admin only)",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAdmin(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var created *api.Agent
			err := a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceAgents}, func(ctx context.Context) error {
				var err error
				created, err = a.client.CreateAgent(ctx, agentInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, created)
			} else {
				fmt.Fprintf(w, "Created agent #%d\n", created.ID)
			}
			return 0
		})
	},
}

var agentsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an agent (admin only)",
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

			var updated *api.Agent
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceAgents}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateAgent(ctx, id, agentInput)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Updated agent #%d\n", updated.ID)
			}
			return 0
		})
	},
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an agent (admin only)",
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

			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceAgents}, func(ctx context.Context) error {
				return a.client.DeleteAgent(ctx, id)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			fmt.Fprintf(w, "Deleted agent #%d\n", id)
			return 0
		})
	},
}

func init() {
	agentsListCmd.Flags().StringVar(&agentFilter.Name, "name", "", "Filter by agent name")
	agentsListCmd.Flags().StringVar(&agentFilter.Department, "department", "", "Filter by department name")

	for _, c := range []*cobra.Command{agentsCreateCmd, agentsUpdateCmd} {
		c.Flags().StringVar(&agentInput.FirstName, "first-name", "", "First name")
		c.Flags().StringVar(&agentInput.LastName, "last-name", "", "Last name")
		c.Flags().StringVar(&agentInput.Email, "email", "", "Email address")
		c.Flags().Int64Var(&agentInput.DepartmentID, "department-id", 0, "Department id")
	}

	agentsCmd.AddCommand(agentsListCmd, agentsGetCmd, agentsCreateCmd, agentsUpdateCmd, agentsDeleteCmd)
	rootCmd.AddCommand(agentsCmd)
}
