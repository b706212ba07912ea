// ABOUTME: Query keys identifying a cacheable fetch
// ABOUTME: A key is the resource name plus the screen's active filter state

package query

import (
	"net/url"
	"sort"
	"strings"
)

// Resource names used as key prefixes and invalidation targets
const (
	ResourceCustomers   = "customers"
	ResourceAgents      = "agents"
	ResourceDepartments = "departments"
	ResourceTickets     = "tickets"
	ResourceComments    = "ticket-comments"
)

// Key identifies one cacheable fetch: the resource name plus the filter
// values the screen currently holds. Filter maps are passed by value and
// canonicalized, so equal filter states always produce equal keys.
type Key struct {
	Resource string
	Filters  map[string]string
}

// NewKey builds a key; empty filter values are dropped
func NewKey(resource string, filters map[string]string) Key {
	clean := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			clean[k] = v
		}
	}
	return Key{Resource: resource, Filters: clean}
}

// String renders the canonical cache key, filters sorted by name. The
// resource prefix always ends with "?" so per-resource invalidation can
// match on prefix alone.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.Resource)
	sb.WriteString("?")

	names := make([]string, 0, len(k.Filters))
	for name := range k.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(k.Filters[name]))
	}
	return sb.String()
}
