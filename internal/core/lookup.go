package core

import (
	"strings"

	"github.com/jmylchreest/toastui/internal/toast"
)

// LookupByID finds a toast by its ID. A unique ID prefix also matches.
// Returns nil if not found or if the prefix is ambiguous.
func LookupByID(toasts []toast.Snapshot, id string) *toast.Snapshot {
	if id == "" {
		return nil
	}

	for i := range toasts {
		if toasts[i].ID == id {
			return &toasts[i]
		}
	}

	var match *toast.Snapshot
	for i := range toasts {
		if strings.HasPrefix(toasts[i].ID, id) {
			if match != nil {
				return nil
			}
			match = &toasts[i]
		}
	}
	return match
}

// LookupByIndex finds a toast by its index (1-based for user-friendliness).
// Returns nil if index is out of bounds.
func LookupByIndex(toasts []toast.Snapshot, index int) *toast.Snapshot {
	idx := index - 1
	if idx < 0 || idx >= len(toasts) {
		return nil
	}
	return &toasts[idx]
}

// Search finds toasts matching a search term in title or message.
// Case-insensitive substring match.
func Search(toasts []toast.Snapshot, term string) []toast.Snapshot {
	if term == "" {
		return toasts
	}

	term = strings.ToLower(term)
	var result []toast.Snapshot

	for _, t := range toasts {
		if strings.Contains(strings.ToLower(t.Title), term) ||
			strings.Contains(strings.ToLower(t.Message), term) {
			result = append(result, t)
		}
	}

	return result
}

// CountByType returns how many toasts there are of each type.
func CountByType(toasts []toast.Snapshot) map[toast.Type]int {
	counts := make(map[toast.Type]int)
	for _, t := range toasts {
		counts[t.Type]++
	}
	return counts
}
