// Package schedule computes the canonical slot grid for a doctor's working
// window. The grid is a pure function of the window, so every caller agrees
// on the bookable set without coordination.
package schedule

import (
	"fmt"
	"time"

	"github.com/mkravets/docbooking/internal/domain"
)

const (
	slotLayout = "15:04"
	dateLayout = "2006-01-02"
)

// ValidDate reports whether token is a well-formed calendar date.
func ValidDate(token string) bool {
	_, err := time.Parse(dateLayout, token)
	return err == nil
}

// Grid enumerates every slot time from the window start (inclusive) to the
// window end (exclusive) at the configured granularity, ascending.
func Grid(w domain.ScheduleWindow) ([]string, error) {
	if w.SlotMinutes <= 0 {
		return nil, fmt.Errorf("schedule: slot granularity must be positive, got %d", w.SlotMinutes)
	}
	start, err := time.Parse(slotLayout, w.Start)
	if err != nil {
		return nil, fmt.Errorf("schedule: parse window start %q: %w", w.Start, err)
	}
	end, err := time.Parse(slotLayout, w.End)
	if err != nil {
		return nil, fmt.Errorf("schedule: parse window end %q: %w", w.End, err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("schedule: window start %q is not before end %q", w.Start, w.End)
	}

	step := time.Duration(w.SlotMinutes) * time.Minute
	var grid []string
	for t := start; t.Before(end); t = t.Add(step) {
		grid = append(grid, t.Format(slotLayout))
	}
	return grid, nil
}

// Contains reports whether token is one of the window's grid slots.
func Contains(w domain.ScheduleWindow, token string) (bool, error) {
	grid, err := Grid(w)
	if err != nil {
		return false, err
	}
	for _, t := range grid {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

// Free returns the grid minus the held times, ascending and duplicate-free.
// Held times outside the grid are ignored; they belong to a stale window
// configuration and are the reconciler's problem, not availability's.
func Free(w domain.ScheduleWindow, held []string) ([]string, error) {
	grid, err := Grid(w)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(held))
	for _, t := range held {
		taken[t] = struct{}{}
	}
	free := make([]string, 0, len(grid))
	for _, t := range grid {
		if _, ok := taken[t]; !ok {
			free = append(free, t)
		}
	}
	return free, nil
}
