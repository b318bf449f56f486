package model

import (
	"fmt"
	"strings"
)

// Filter selects which items a view shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterComplete
	FilterIncomplete
)

// Filters lists every criterion in display order.
var Filters = []Filter{FilterAll, FilterComplete, FilterIncomplete}

func (f Filter) String() string {
	switch f {
	case FilterComplete:
		return "complete"
	case FilterIncomplete:
		return "incomplete"
	default:
		return "all"
	}
}

// Match reports whether it belongs in a view filtered by f.
func (f Filter) Match(it Item) bool {
	switch f {
	case FilterComplete:
		return it.Checked
	case FilterIncomplete:
		return !it.Checked
	default:
		return true
	}
}

// Next returns the criterion after f, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// ParseFilter accepts the criterion names used on the command line and in config.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "complete", "done":
		return FilterComplete, nil
	case "incomplete", "pending":
		return FilterIncomplete, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, complete or incomplete)", s)
}
