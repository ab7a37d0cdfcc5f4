package domain

import (
	"fmt"
	"strings"
)

// Selector narrows a set of tasks. Besides the three statuses it accepts
// "available" (derived from the graph) and "all".
type Selector string

const (
	SelectAvailable  Selector = "available"
	SelectAll        Selector = "all"
	SelectOpen       Selector = Selector(StatusOpen)
	SelectInProgress Selector = Selector(StatusInProgress)
	SelectClosed     Selector = Selector(StatusClosed)
)

// ValidSelectors contains every accepted selector.
var ValidSelectors = []Selector{SelectAvailable, SelectAll, SelectOpen, SelectInProgress, SelectClosed}

// IsValid checks if the selector is known.
func (s Selector) IsValid() bool {
	for _, v := range ValidSelectors {
		if s == v {
			return true
		}
	}
	return false
}

// Status returns the explicit status the selector names, if any.
func (s Selector) Status() (TaskStatus, bool) {
	status := TaskStatus(s)
	return status, status.IsValid()
}

// ParseSelector parses a selector name, returning def when s is empty.
func ParseSelector(s string, def Selector) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	sel := Selector(strings.ReplaceAll(strings.ToLower(s), "-", "_"))
	if !sel.IsValid() {
		return "", NewValidationError([]string{
			fmt.Sprintf("invalid status flag %q (use available, all, open, in_progress or closed)", s),
		})
	}
	return sel, nil
}
