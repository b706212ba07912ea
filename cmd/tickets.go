// ABOUTME: Ticket commands for the crmdesk CLI
// ABOUTME: List with filters and sort, CRUD, and the status-only update

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/crmdesk/cli/internal/api"
	"github.com/crmdesk/cli/internal/query"
)

var (
	ticketSearch     string
	ticketStatus     string
	ticketPriority   string
	ticketSort       string
	ticketCustomer   int64
	ticketAgent      int64
	ticketDepartment int64

	ticketSubject     string
	ticketDescription string
	ticketNewPriority string
	ticketCustomerID  int64
	ticketDeptID      int64
	ticketAgentID     int64
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Browse and manage support tickets",
}

var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets with filters and sort",
	Long: `List tickets. Search, status, and priority filters are applied by the
backend; --customer, --agent, and --department switch to the dedicated
by-association endpoints. Sort order is applied locally.`,
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			tickets, code := fetchTickets(ctx, a, w)
			if code != 0 {
				return code
			}
			api.SortTickets(tickets, ticketSort)

			if IsJSONOutput() {
				printJSON(w, tickets)
				return 0
			}
			if len(tickets) == 0 {
				fmt.Fprintln(w, "No tickets found.")
				return 0
			}
			for _, t := range tickets {
				assignee := "unassigned"
				if t.AssignedAgent != nil {
					assignee = t.AssignedAgent.FirstName + " " + t.AssignedAgent.LastName
				}
				fmt.Fprintf(w, "#%-5d %-11s %-7s %-35s %-20s %-15s %s\n",
					t.ID, t.Status, t.Priority, truncate(t.Subject, 35),
					t.Customer.FirstName+" "+t.Customer.LastName, assignee, humanize.Time(t.CreatedAt))
			}
			return 0
		})
	},
}

// fetchTickets resolves the flag combination to the right endpoint and
// runs it through the query layer
func fetchTickets(ctx context.Context, a *app, w io.Writer) ([]api.Ticket, int) {
	enabled := a.store.IsAuthenticated()

	var key query.Key
	var fn func(context.Context) ([]api.Ticket, error)

	switch {
	case ticketCustomer != 0:
		key = query.NewKey(query.ResourceTickets, map[string]string{"customer": fmt.Sprint(ticketCustomer)})
		fn = func(ctx context.Context) ([]api.Ticket, error) { return a.client.TicketsByCustomer(ctx, ticketCustomer) }
	case ticketAgent != 0:
		key = query.NewKey(query.ResourceTickets, map[string]string{"assigned-agent": fmt.Sprint(ticketAgent)})
		fn = func(ctx context.Context) ([]api.Ticket, error) { return a.client.TicketsByAssignedAgent(ctx, ticketAgent) }
	case ticketDepartment != 0:
		key = query.NewKey(query.ResourceTickets, map[string]string{"department": fmt.Sprint(ticketDepartment)})
		fn = func(ctx context.Context) ([]api.Ticket, error) { return a.client.TicketsByDepartment(ctx, ticketDepartment) }
	default:
		filter := api.TicketFilter{Search: ticketSearch}
		if ticketStatus != "" {
			status, err := parseStatus(ticketStatus)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return nil, 1
			}
			filter.Status = status
		}
		if ticketPriority != "" {
			priority, err := parsePriority(ticketPriority)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return nil, 1
			}
			filter.Priority = priority
		}
		key = query.NewKey(query.ResourceTickets, map[string]string{
			"search":   filter.Search,
			"status":   string(filter.Status),
			"priority": string(filter.Priority),
			"sort":     ticketSort,
		})
		fn = func(ctx context.Context) ([]api.Ticket, error) { return a.client.FindTickets(ctx, filter) }
	}

	tickets, err := query.Fetch(ctx, a.queries, key, enabled, fn)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, 2
	}
	return tickets, 0
}

var ticketsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one ticket with its comments",
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

			ticket, err := a.client.GetTicket(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			comments, err := a.client.CommentsByTicket(ctx, id)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, struct {
					Ticket   *api.Ticket         `json:"ticket"`
					Comments []api.TicketComment `json:"comments"`
				}{ticket, comments})
				return 0
			}

			fmt.Fprint(w, formatTicket(ticket, comments))
			return 0
		})
	},
}

func formatTicket(t *api.Ticket, comments []api.TicketComment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ticket #%d: %s\n", t.ID, t.Subject)
	fmt.Fprintf(&sb, "Status:     %s\n", t.Status)
	fmt.Fprintf(&sb, "Priority:   %s\n", t.Priority)
	fmt.Fprintf(&sb, "Customer:   %s %s <%s>\n", t.Customer.FirstName, t.Customer.LastName, t.Customer.Email)
	fmt.Fprintf(&sb, "Department: %s\n", t.Department.Name)
	if t.AssignedAgent != nil {
		fmt.Fprintf(&sb, "Assignee:   %s %s\n", t.AssignedAgent.FirstName, t.AssignedAgent.LastName)
	} else {
		fmt.Fprintf(&sb, "Assignee:   unassigned\n")
	}
	fmt.Fprintf(&sb, "Created:    %s\n", humanize.Time(t.CreatedAt))
	fmt.Fprintf(&sb, "Updated:    %s\n", humanize.Time(t.UpdatedAt))
	fmt.Fprintf(&sb, "\n%s\n", t.Description)

	fmt.Fprintf(&sb, "\nComments (%d)\n", len(comments))
	for _, c := range comments {
		fmt.Fprintf(&sb, "  [%s] %s %s (%s): %s\n",
			humanize.Time(c.CreatedAt), c.AuthorFirstName, c.AuthorLastName, c.AuthorRole, c.Comment)
	}
	return sb.String()
}

var ticketsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a ticket",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			input, err := buildTicketInput()
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var created *api.Ticket
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceTickets}, func(ctx context.Context) error {
				var err error
				created, err = a.client.CreateTicket(ctx, input)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, created)
			} else {
				fmt.Fprintf(w, "Created ticket #%d\n", created.ID)
			}
			return 0
		})
	},
}

var ticketsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Replace a ticket",
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
			input, err := buildTicketInput()
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var updated *api.Ticket
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceTickets}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateTicket(ctx, id, input)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Updated ticket #%d\n", updated.ID)
			}
			return 0
		})
	},
}

var ticketsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change only a ticket's status",
	Long:  "Change a ticket's status. Valid values: OPEN, IN_PROGRESS, ON_HOLD, RESOLVED, CLOSED.",
	Args:  cobra.ExactArgs(2),
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
			status, err := parseStatus(args[1])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var updated *api.Ticket
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceTickets}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateTicketStatus(ctx, id, status)
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Ticket #%d is now %s\n", updated.ID, updated.Status)
			}
			return 0
		})
	},
}

var ticketsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket",
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

			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceTickets}, func(ctx context.Context) error {
				return a.client.DeleteTicket(ctx, id)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			fmt.Fprintf(w, "Deleted ticket #%d\n", id)
			return 0
		})
	},
}

func buildTicketInput() (api.TicketInput, error) {
	input := api.TicketInput{
		Subject:      ticketSubject,
		Description:  ticketDescription,
		CustomerID:   ticketCustomerID,
		DepartmentID: ticketDeptID,
	}
	if ticketNewPriority != "" {
		priority, err := parsePriority(ticketNewPriority)
		if err != nil {
			return api.TicketInput{}, err
		}
		input.Priority = priority
	}
	if ticketAgentID != 0 {
		id := ticketAgentID
		input.AssignedAgentID = &id
	}
	return input, nil
}

// parseStatus validates a status argument against the known enum values
func parseStatus(arg string) (api.TicketStatus, error) {
	candidate := api.TicketStatus(strings.ToUpper(arg))
	for _, s := range api.Statuses {
		if candidate == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (valid: %v)", arg, api.Statuses)
}

// parsePriority validates a priority argument against the known enum values
func parsePriority(arg string) (api.TicketPriority, error) {
	candidate := api.TicketPriority(strings.ToUpper(arg))
	for _, p := range api.Priorities {
		if candidate == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (valid: %v)", arg, api.Priorities)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func init() {
	ticketsListCmd.Flags().StringVar(&ticketSearch, "search", "", "Free-text search")
	ticketsListCmd.Flags().StringVar(&ticketStatus, "status", "", "Filter by status")
	ticketsListCmd.Flags().StringVar(&ticketPriority, "priority", "", "Filter by priority")
	ticketsListCmd.Flags().StringVar(&ticketSort, "sort", api.SortNewest, "Sort order: newest, oldest, priority")
	ticketsListCmd.Flags().Int64Var(&ticketCustomer, "customer", 0, "List tickets for a customer id")
	ticketsListCmd.Flags().Int64Var(&ticketAgent, "agent", 0, "List tickets assigned to an agent id")
	ticketsListCmd.Flags().Int64Var(&ticketDepartment, "department", 0, "List tickets for a department id")

	for _, c := range []*cobra.Command{ticketsCreateCmd, ticketsUpdateCmd} {
		c.Flags().StringVar(&ticketSubject, "subject", "", "Ticket subject")
		c.Flags().StringVar(&ticketDescription, "description", "", "Ticket description")
		c.Flags().StringVar(&ticketNewPriority, "priority", "", "Ticket priority")
		c.Flags().Int64Var(&ticketCustomerID, "customer-id", 0, "Customer id")
		c.Flags().Int64Var(&ticketDeptID, "department-id", 0, "Department id")
		c.Flags().Int64Var(&ticketAgentID, "agent-id", 0, "Assigned agent id (optional)")
	}

	ticketsCmd.AddCommand(ticketsListCmd, ticketsGetCmd, ticketsCreateCmd, ticketsUpdateCmd, ticketsStatusCmd, ticketsDeleteCmd)
	rootCmd.AddCommand(ticketsCmd)
}
