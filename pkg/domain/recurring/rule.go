// Package recurring holds recurring-rule schedule state and the date
// arithmetic that advances it.
package recurring

import (
	"errors"
	"time"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/shopspring/decimal"
)

// Frequency is how often a rule fires.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ValidFrequency reports whether f is a known frequency.
func ValidFrequency(f Frequency) bool {
	return f == Daily || f == Weekly || f == Monthly
}

var (
	// ErrRuleNotFound is returned when a rule does not exist or is not owned
	// by the caller.
	ErrRuleNotFound = errors.New("recurring rule not found")

	// ErrTooManyIterations is returned when a catch-up loop hits the safety
	// cap, which indicates a corrupted schedule rather than a long outage.
	ErrTooManyIterations = errors.New("aborted: too many catch-up iterations")
)

// MaxCatchUpIterations bounds one rule's catch-up loop.
const MaxCatchUpIterations = 100

// Rule describes a transaction to materialize on a schedule. NextRun is the
// earliest not-yet-materialized occurrence; it only advances forward, driven
// exclusively by successful materialization.
type Rule struct {
	ID         int64
	UserID     int64
	AccountID  int64
	Type       ledger.TxnType
	Amount     decimal.Decimal // positive; sign applied at materialization
	CategoryID *int64
	Note       string

	Frequency  Frequency
	EveryN     int
	StartDate  time.Time
	NextRun    time.Time
	EndDate    *time.Time
	Weekday    *int // 0=Mon..6=Sun, pins weekly rules
	DayOfMonth *int // 1..31, pins monthly rules, clamped to month length
	Enabled    bool

	LastRun   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Due reports whether the rule has an occurrence to materialize on or before
// today, respecting the optional end date.
func (r *Rule) Due(today time.Time) bool {
	if r.NextRun.After(today) {
		return false
	}
	if r.EndDate != nil && r.NextRun.After(*r.EndDate) {
		return false
	}
	return true
}

// NextAfter computes the occurrence following prev for this rule's schedule.
func (r *Rule) NextAfter(prev time.Time) time.Time {
	switch r.Frequency {
	case Daily:
		return prev.AddDate(0, 0, r.EveryN)
	case Weekly:
		next := prev.AddDate(0, 0, 7*r.EveryN)
		if r.Weekday != nil {
			// Snap forward to the pinned weekday (0=Mon..6=Sun).
			diff := (*r.Weekday - mondayWeekday(next) + 7) % 7
			next = next.AddDate(0, 0, diff)
		}
		return next
	default:
		return addMonths(prev, r.EveryN, r.DayOfMonth)
	}
}

// mondayWeekday maps time.Weekday (Sunday=0) onto the 0=Monday convention
// the schedule pins use.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// addMonths advances d by n calendar months, landing on pinnedDay when set
// (otherwise d's day), clamped to the target month's length.
func addMonths(d time.Time, n int, pinnedDay *int) time.Time {
	y := d.Year() + (int(d.Month())-1+n)/12
	m := time.Month((int(d.Month())-1+n)%12 + 1)
	day := d.Day()
	if pinnedDay != nil {
		day = *pinnedDay
	}
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
