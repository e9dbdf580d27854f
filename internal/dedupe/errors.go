package dedupe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyResolved marks a group that has at most one claimant left.
	// It counts as a success.
	ErrAlreadyResolved = errors.New("already resolved")
	// ErrInconsistentState marks a selected group whose mappings vanished
	// before it was locked, which means something else writes the catalog.
	ErrInconsistentState = errors.New("inconsistent state")
	// ErrStore marks any transaction-level failure.
	ErrStore = errors.New("store error")
	// ErrPreflight marks failures that abort a run before any group is touched.
	ErrPreflight = errors.New("preflight failure")
	// ErrSelectorConsumed is yielded when a Selector is iterated twice.
	ErrSelectorConsumed = errors.New("group selector already consumed")
	// ErrRunInProgress reports that another run holds the catalog lock.
	ErrRunInProgress = errors.New("dedupe run already in progress")
)

// wrap tags err with marker and a stage/operation detail so callers can
// classify it with errors.Is while logs keep the context.
func wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrStore
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "dedupe failure"
	}
	return strings.Join(parts, ": ")
}
