package core

import (
	"slices"
	"strings"

	"github.com/jmylchreest/toastui/internal/toast"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByCreated   SortField = "created"
	SortByRemaining SortField = "remaining"
	SortByType      SortField = "type"
	SortByPosition  SortField = "position"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField // Field to sort by
	Order SortOrder // Sort order (asc/desc)
}

// DefaultSortOptions returns default sort options (newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByCreated,
		Order: SortDesc,
	}
}

// Sort sorts toasts in place. Equal keys keep their display order.
// Persistent toasts sort after every timed toast by remaining time.
func Sort(toasts []toast.Snapshot, opts SortOptions) {
	if len(toasts) == 0 {
		return
	}

	slices.SortStableFunc(toasts, func(a, b toast.Snapshot) int {
		var c int
		switch opts.Field {
		case SortByRemaining:
			c = compareRemaining(a, b)
		case SortByType:
			c = strings.Compare(string(a.Type), string(b.Type))
		case SortByPosition:
			c = positionIndex(a.Position) - positionIndex(b.Position)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}

		if opts.Order == SortDesc {
			return -c
		}
		return c
	})
}

func compareRemaining(a, b toast.Snapshot) int {
	switch {
	case a.Persistent() && b.Persistent():
		return 0
	case a.Persistent():
		return 1
	case b.Persistent():
		return -1
	case a.Remaining < b.Remaining:
		return -1
	case a.Remaining > b.Remaining:
		return 1
	default:
		return 0
	}
}

func positionIndex(p toast.Position) int {
	return slices.Index(toast.ValidPositions(), p)
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "created", "time", "c", "":
		return SortByCreated, nil
	case "remaining", "left", "r":
		return SortByRemaining, nil
	case "type", "t":
		return SortByType, nil
	case "position", "pos", "p":
		return SortByPosition, nil
	default:
		return SortByCreated, nil
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return SortDesc, nil
	}
}
