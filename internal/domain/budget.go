package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Budget is the time available between a frozen departure instant and the
// desired arrival deadline.
type Budget struct {
	DepartAt time.Time
	Deadline time.Time
}

// NewBudget resolves an "HH:MM" arrival time relative to departAt.
// An arrival time that has already passed today refers to tomorrow.
func NewBudget(departAt time.Time, arriveBy string) (Budget, error) {
	hour, minute, err := parseClock(arriveBy)
	if err != nil {
		return Budget{}, err
	}

	deadline := time.Date(
		departAt.Year(), departAt.Month(), departAt.Day(),
		hour, minute, 0, 0, departAt.Location(),
	)
	if deadline.Before(departAt) {
		deadline = deadline.AddDate(0, 0, 1)
	}

	return Budget{DepartAt: departAt, Deadline: deadline}, nil
}

// Seconds returns the available time in whole seconds.
func (b Budget) Seconds() int {
	return int(b.Deadline.Sub(b.DepartAt) / time.Second)
}

func parseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("arrival time %q: expected HH:MM", s)
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("arrival time %q: invalid hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("arrival time %q: invalid minute", s)
	}

	return hour, minute, nil
}
