// ABOUTME: Client-side sort orders for ticket lists
// ABOUTME: The backend returns filter results unordered; display order is chosen locally

package api

import "sort"

// Ticket list sort keys
const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortPriority = "priority"
)

// SortTickets orders tickets in place by the given sort key. Unknown
// keys leave the backend order untouched.
func SortTickets(tickets []Ticket, by string) {
	switch by {
	case SortNewest:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(tickets, func(i, j int) bool {
			return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
		})
	case SortPriority:
		sort.SliceStable(tickets, func(i, j int) bool {
			return PriorityRank(tickets[i].Priority) < PriorityRank(tickets[j].Priority)
		})
	}
}
