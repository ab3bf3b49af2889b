package service

import (
	"fmt"
	"strings"
)

// TransitionMode decides what a workflow step does when the record exists
// but is not in the state the step starts from.
type TransitionMode string

const (
	// TransitionReject fails the step with a conflict.
	TransitionReject TransitionMode = "reject"
	// TransitionIgnore leaves the record untouched and reports no change.
	TransitionIgnore TransitionMode = "ignore"
)

// ParseTransitionMode accepts "reject" or "ignore". Empty means reject.
func ParseTransitionMode(s string) (TransitionMode, error) {
	switch TransitionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TransitionReject:
		return TransitionReject, nil
	case TransitionIgnore:
		return TransitionIgnore, nil
	}
	return "", fmt.Errorf("unknown workflow transition mode %q", s)
}

func unchangedMessage(entity, status string) string {
	return fmt.Sprintf("%s is %s; nothing changed", entity, status)
}
