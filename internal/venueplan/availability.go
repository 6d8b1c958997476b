// Package venueplan models a venue's recurring week: operating hours,
// reserved blocks, and the queries that decide whether a time is open,
// reserved, or closed.
package venueplan

import (
	"strconv"
	"strings"
)

// UsageCategory is the purpose a reserved block serves.
type UsageCategory string

const (
	CategoryLeague     UsageCategory = "league"
	CategoryTournament UsageCategory = "tournament"
	CategoryPractice   UsageCategory = "practice"
	CategoryClosed     UsageCategory = "closed"
)

// ValidCategory reports whether raw names a known usage category.
func ValidCategory(raw string) bool {
	switch UsageCategory(raw) {
	case CategoryLeague, CategoryTournament, CategoryPractice, CategoryClosed:
		return true
	}
	return false
}

// WeeklyAvailability is one operating-hours window. A venue/day may carry
// several windows; a day with none is closed all day. OpensAt and ClosesAt are
// "HH:MM" clock values. The model does not reject ClosesAt <= OpensAt; the
// write boundary must.
type WeeklyAvailability struct {
	VenueID   int64
	DayOfWeek int // 0 = Sunday
	OpensAt   string
	ClosesAt  string
}

// ReservedBlock is a recurring commitment layered over the operating hours.
// Overlapping blocks on one day are permitted; classification resolves them by
// letting the last matching block in input order win.
type ReservedBlock struct {
	ID        int64
	VenueID   int64
	DayOfWeek int
	Category  UsageCategory
	StartsAt  string
	EndsAt    string
	Note      string
}

// State is the coarse classification of one venue hour.
type State int

const (
	StateClosed State = iota
	StateAvailable
	StateReserved
)

func (s State) String() string {
	switch s {
	case StateAvailable:
		return "available"
	case StateReserved:
		return "reserved"
	default:
		return "closed"
	}
}

// Classification is the answer to "what is this venue hour". Category is set
// only when State is StateReserved.
type Classification struct {
	State    State
	Category UsageCategory
}

// HourClassification is one cell of the week grid.
type HourClassification struct {
	Hour int
	Classification
}

// Evaluator answers point and range queries over one venue's weekly hours and
// reserved blocks. It never mutates its inputs and every query is total:
// missing data yields closed / outside-hours / full-day answers, never errors.
// Safe for concurrent use.
type Evaluator struct {
	hours  []WeeklyAvailability
	blocks []ReservedBlock
}

// NewEvaluator builds an evaluator over a single venue's rows. Block order is
// preserved; it decides overlap ties in Classify.
func NewEvaluator(hours []WeeklyAvailability, blocks []ReservedBlock) *Evaluator {
	return &Evaluator{hours: hours, blocks: blocks}
}

// IsOpen reports whether hour falls inside [opens, closes) of any window
// configured for day.
func (e *Evaluator) IsOpen(day, hour int) bool {
	minute := hour * 60
	for _, w := range e.hours {
		if w.DayOfWeek != day {
			continue
		}
		opens, ok := minuteOfDay(w.OpensAt)
		if !ok {
			continue
		}
		closes, ok := minuteOfDay(w.ClosesAt)
		if !ok {
			continue
		}
		if opens <= minute && minute < closes {
			return true
		}
	}
	return false
}

// Classify resolves one venue hour. The baseline comes from IsOpen; every
// reserved block covering the hour then overrides it, so with overlapping
// blocks the last one in input order wins. Callers that need a category
// priority must order the blocks before building the evaluator.
func (e *Evaluator) Classify(day, hour int) Classification {
	result := Classification{State: StateClosed}
	if e.IsOpen(day, hour) {
		result.State = StateAvailable
	}

	minute := hour * 60
	for _, b := range e.blocks {
		if b.DayOfWeek != day {
			continue
		}
		starts, ok := minuteOfDay(b.StartsAt)
		if !ok {
			continue
		}
		ends, ok := minuteOfDay(b.EndsAt)
		if !ok {
			continue
		}
		if starts <= minute && minute < ends {
			result = Classification{State: StateReserved, Category: b.Category}
		}
	}
	return result
}

// BlockOutsideHours reports whether block falls outside the venue's operating
// hours on its day. A day with no configured windows is vacuously outside.
// Containment of [starts, ends] within a single window is sufficient to be
// inside; a block spanning two adjacent windows counts as outside.
func (e *Evaluator) BlockOutsideHours(block ReservedBlock) bool {
	starts, ok := minuteOfDay(block.StartsAt)
	if !ok {
		return true
	}
	ends, ok := minuteOfDay(block.EndsAt)
	if !ok {
		return true
	}

	for _, w := range e.hours {
		if w.DayOfWeek != block.DayOfWeek {
			continue
		}
		opens, ok := minuteOfDay(w.OpensAt)
		if !ok {
			continue
		}
		closes, ok := minuteOfDay(w.ClosesAt)
		if !ok {
			continue
		}
		if opens <= starts && ends <= closes {
			return false
		}
	}
	return true
}

// HourRange returns the earliest open hour and latest close hour across the
// whole week, the close hour rounded up when it carries minutes. With no
// windows configured it returns the full day, (0, 23): the range only sizes a
// display grid, so the permissive default is the safe one.
func (e *Evaluator) HourRange() (int, int) {
	first, last := -1, -1
	for _, w := range e.hours {
		opens, ok := minuteOfDay(w.OpensAt)
		if !ok {
			continue
		}
		closes, ok := minuteOfDay(w.ClosesAt)
		if !ok {
			continue
		}
		openHour := opens / 60
		closeHour := closes / 60
		if closes%60 > 0 {
			closeHour++
		}
		if first == -1 || openHour < first {
			first = openHour
		}
		if closeHour > last {
			last = closeHour
		}
	}
	if first == -1 {
		return 0, 23
	}
	return first, last
}

// WeekGrid classifies every hour of every weekday across HourRange. Day 0 is
// Sunday.
func (e *Evaluator) WeekGrid() [7][]HourClassification {
	first, last := e.HourRange()
	var grid [7][]HourClassification
	for day := 0; day < 7; day++ {
		cells := make([]HourClassification, 0, last-first+1)
		for hour := first; hour <= last; hour++ {
			cells = append(cells, HourClassification{
				Hour:           hour,
				Classification: e.Classify(day, hour),
			})
		}
		grid[day] = cells
	}
	return grid
}

// minuteOfDay parses an "HH:MM" clock value into minutes since midnight.
// Malformed values report false and the row is ignored, which keeps every
// query total.
func minuteOfDay(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
