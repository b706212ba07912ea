// ABOUTME: Ticket comment commands for the crmdesk CLI
// ABOUTME: Comments are listed per ticket or per author

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
	commentTicketID int64
	commentAuthorID int64
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Browse and manage ticket comments",
}

var commentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List comments for a ticket or an author",
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			if (commentTicketID == 0) == (commentAuthorID == 0) {
				fmt.Fprintln(w, "Error: exactly one of --ticket or --author is required")
				return 1
			}

			var key query.Key
			var fn func(context.Context) ([]api.TicketComment, error)
			if commentTicketID != 0 {
				key = query.NewKey(query.ResourceComments, map[string]string{"ticket": fmt.Sprint(commentTicketID)})
				fn = func(ctx context.Context) ([]api.TicketComment, error) {
					return a.client.CommentsByTicket(ctx, commentTicketID)
				}
			} else {
				key = query.NewKey(query.ResourceComments, map[string]string{"author": fmt.Sprint(commentAuthorID)})
				fn = func(ctx context.Context) ([]api.TicketComment, error) {
					return a.client.CommentsByAuthor(ctx, commentAuthorID)
				}
			}

			comments, err := query.Fetch(ctx, a.queries, key, a.store.IsAuthenticated(), fn)
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, comments)
				return 0
			}
			if len(comments) == 0 {
				fmt.Fprintln(w, "No comments found.")
				return 0
			}
			for _, c := range comments {
				fmt.Fprintf(w, "%-5d ticket #%-5d [%s] %s %s (%s): %s\n",
					c.ID, c.TicketID, humanize.Time(c.CreatedAt),
					c.AuthorFirstName, c.AuthorLastName, c.AuthorRole, c.Comment)
			}
			return 0
		})
	},
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <ticket-id> <comment...>",
	Short: "Add a comment to a ticket",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runResource(func(ctx context.Context, a *app, w io.Writer) int {
			if err := a.requireAuth(); err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}
			ticketID, err := parseID(args[0])
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 1
			}

			var created *api.TicketComment
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceComments}, func(ctx context.Context) error {
				var err error
				created, err = a.client.CreateComment(ctx, api.CommentInput{
					TicketID: ticketID,
					Comment:  strings.Join(args[1:], " "),
				})
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, created)
			} else {
				fmt.Fprintf(w, "Added comment #%d to ticket #%d\n", created.ID, created.TicketID)
			}
			return 0
		})
	},
}

var commentsUpdateCmd = &cobra.Command{
	Use:   "update <id> <comment...>",
	Short: "Edit a comment",
	Args:  cobra.MinimumNArgs(2),
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

			var updated *api.TicketComment
			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceComments}, func(ctx context.Context) error {
				var err error
				updated, err = a.client.UpdateComment(ctx, id, api.CommentUpdate{Comment: strings.Join(args[1:], " ")})
				return err
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}

			if IsJSONOutput() {
				printJSON(w, updated)
			} else {
				fmt.Fprintf(w, "Updated comment #%d\n", updated.ID)
			}
			return 0
		})
	},
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a comment",
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

			err = a.queries.Mutate(ctx, query.Mutation{Resource: query.ResourceComments}, func(ctx context.Context) error {
				return a.client.DeleteComment(ctx, id)
			})
			if err != nil {
				fmt.Fprintf(w, "Error: %v\n", err)
				return 2
			}
			fmt.Fprintf(w, "Deleted comment #%d\n", id)
			return 0
		})
	},
}

func init() {
	commentsListCmd.Flags().Int64Var(&commentTicketID, "ticket", 0, "List comments on a ticket id")
	commentsListCmd.Flags().Int64Var(&commentAuthorID, "author", 0, "List comments by an author id")

	commentsCmd.AddCommand(commentsListCmd, commentsAddCmd, commentsUpdateCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}
