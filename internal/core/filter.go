// Package core provides filtering, sorting, and lookup logic for toast
// snapshots.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // Field name: type, title, message, position, state, persistent, remaining, age
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	// Cached parsed values
	regex       *regexp.Regexp
	durationVal time.Duration
	boolVal     bool
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies simple criteria for filtering toasts.
type FilterOptions struct {
	Type     toast.Type     // Exact type ("" = any)
	Position toast.Position // Exact position ("" = any)
	State    *toast.State   // Exact state (nil = any)
	Limit    int            // Maximum results (0 = unlimited)
}

// Filter filters toasts based on the provided options.
func Filter(toasts []toast.Snapshot, opts FilterOptions) []toast.Snapshot {
	result := make([]toast.Snapshot, 0, len(toasts))

	for _, t := range toasts {
		if opts.Type != "" && t.Type != opts.Type {
			continue
		}
		if opts.Position != "" && t.Position != opts.Position {
			continue
		}
		if opts.State != nil && t.State != *opts.State {
			continue
		}
		result = append(result, t)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 1500 (milliseconds), 4s, 2m, 48h, 7d, 1w.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "" || s == "0" {
		return 0, nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	// Handle day suffix (7d -> 168h)
	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	// Handle week suffix (1w -> 168h)
	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseState parses a lifecycle state name.
func ParseState(s string) (toast.State, error) {
	var st toast.State
	if err := st.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("invalid state: %s (use entering, active, paused, removing)", s)
	}
	return st, nil
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: type, title, message, position, state, persistent,
// remaining, age
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "type=error" - error toasts
//   - "message~disk" - message contains "disk"
//   - "position~=^top-" - any top position
//   - "remaining<2s" - about to expire
//   - "state=paused,age>1m" - hovered for a while
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{}
	if expr == "" {
		return filter, nil
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "type=error" or "message~disk".
func parseCondition(s string) (FilterCondition, error) {
	// Try operators in order of specificity (longest first)
	operators := []FilterOp{
		FilterOpNotEqual,  // != (must be before =)
		FilterOpGreaterEq, // >= (must be before >)
		FilterOpLessEq,    // <= (must be before <)
		FilterOpRegex,     // ~= (must be before ~)
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}
			if err := cond.init(); err != nil {
				return FilterCondition{}, err
			}
			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init normalizes the field and pre-parses the value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "type", "kind":
		c.Field = "type"
	case "title", "summary":
		c.Field = "title"
	case "message", "body":
		c.Field = "message"
	case "position", "pos":
		c.Field = "position"
	case "state":
		if c.Operator == FilterOpEqual || c.Operator == FilterOpNotEqual {
			if _, err := ParseState(c.Value); err != nil {
				return err
			}
		}
	case "persistent", "sticky":
		c.Field = "persistent"
		c.boolVal = parseBool(c.Value)
	case "remaining", "left":
		c.Field = "remaining"
		d, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid remaining value: %w", err)
		}
		c.durationVal = d
	case "age":
		d, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid age value: %w", err)
		}
		c.durationVal = d
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// parseBool parses various boolean representations.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if a toast matches the filter expression at now.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(t toast.Snapshot, now time.Time) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(t, now) {
			return false
		}
	}
	return true
}

// Match tests if a toast matches this single condition at now.
func (c *FilterCondition) Match(t toast.Snapshot, now time.Time) bool {
	switch c.Field {
	case "type":
		return c.matchString(string(t.Type))
	case "title":
		return c.matchString(t.Title)
	case "message":
		return c.matchString(t.Message)
	case "position":
		return c.matchString(string(t.Position))
	case "state":
		return c.matchString(t.State.String())
	case "persistent":
		return c.matchBool(t.Persistent())
	case "remaining":
		if t.Persistent() {
			return false
		}
		return c.matchDuration(t.Remaining)
	case "age":
		return c.matchDuration(now.Sub(t.CreatedAt))
	default:
		return false
	}
}

// matchString matches a string field.
func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return strings.EqualFold(fieldValue, c.Value)
	case FilterOpNotEqual:
		return !strings.EqualFold(fieldValue, c.Value)
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

// matchDuration matches a duration field with numeric comparison.
func (c *FilterCondition) matchDuration(fieldValue time.Duration) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.durationVal
	case FilterOpNotEqual:
		return fieldValue != c.durationVal
	case FilterOpGreater:
		return fieldValue > c.durationVal
	case FilterOpLess:
		return fieldValue < c.durationVal
	case FilterOpGreaterEq:
		return fieldValue >= c.durationVal
	case FilterOpLessEq:
		return fieldValue <= c.durationVal
	default:
		return false
	}
}

// matchBool matches a boolean field.
func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

// FilterWithExpr filters toasts using a filter expression evaluated at now.
func FilterWithExpr(toasts []toast.Snapshot, expr *FilterExpr, now time.Time) []toast.Snapshot {
	if expr == nil || len(expr.Conditions) == 0 {
		return toasts
	}

	result := make([]toast.Snapshot, 0, len(toasts))
	for _, t := range toasts {
		if expr.Match(t, now) {
			result = append(result, t)
		}
	}
	return result
}
