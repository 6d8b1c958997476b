package venueplan

import "testing"

const (
	sunday = iota
	monday
	tuesday
)

func TestIsOpen_WithinWindow(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "17:00"},
	}, nil)

	if !eval.IsOpen(monday, 9) {
		t.Fatal("expected open at opening hour")
	}
	if !eval.IsOpen(monday, 16) {
		t.Fatal("expected open at 16:00")
	}
	if eval.IsOpen(monday, 17) {
		t.Fatal("close hour is exclusive")
	}
	if eval.IsOpen(monday, 8) {
		t.Fatal("expected closed before opening")
	}
	if eval.IsOpen(tuesday, 10) {
		t.Fatal("day without windows must be closed")
	}
}

func TestIsOpen_MultipleWindowsSameDay(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "08:00", ClosesAt: "12:00"},
		{VenueID: 1, DayOfWeek: monday, OpensAt: "14:00", ClosesAt: "21:00"},
	}, nil)

	if !eval.IsOpen(monday, 9) || !eval.IsOpen(monday, 15) {
		t.Fatal("both windows should be open")
	}
	if eval.IsOpen(monday, 13) {
		t.Fatal("gap between windows must be closed")
	}
}

func TestClassify_AvailableAndClosed(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "17:00"},
	}, nil)

	if got := eval.Classify(monday, 10); got.State != StateAvailable {
		t.Fatalf("10:00 should be available, got %s", got.State)
	}
	if got := eval.Classify(monday, 20); got.State != StateClosed {
		t.Fatalf("20:00 should be closed, got %s", got.State)
	}
}

func TestClassify_ReservedBlockOverrides(t *testing.T) {
	eval := NewEvaluator(
		[]WeeklyAvailability{{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "17:00"}},
		[]ReservedBlock{{VenueID: 1, DayOfWeek: monday, Category: CategoryPractice, StartsAt: "09:00", EndsAt: "11:00"}},
	)

	got := eval.Classify(monday, 10)
	if got.State != StateReserved || got.Category != CategoryPractice {
		t.Fatalf("expected reserved(practice), got %s/%s", got.State, got.Category)
	}
	if got := eval.Classify(monday, 11); got.State != StateAvailable {
		t.Fatalf("block end is exclusive, got %s", got.State)
	}
}

func TestClassify_LastOverlappingBlockWins(t *testing.T) {
	// Overlaps resolve by input order, not by category rank. Callers wanting a
	// priority order must sort the blocks first.
	eval := NewEvaluator(
		[]WeeklyAvailability{{VenueID: 1, DayOfWeek: monday, OpensAt: "08:00", ClosesAt: "22:00"}},
		[]ReservedBlock{
			{VenueID: 1, DayOfWeek: monday, Category: CategoryTournament, StartsAt: "09:00", EndsAt: "12:00"},
			{VenueID: 1, DayOfWeek: monday, Category: CategoryPractice, StartsAt: "10:00", EndsAt: "11:00"},
		},
	)

	if got := eval.Classify(monday, 10); got.Category != CategoryPractice {
		t.Fatalf("last matching block should win, got %s", got.Category)
	}
	if got := eval.Classify(monday, 11); got.Category != CategoryTournament {
		t.Fatalf("outside the later block the earlier one applies, got %s", got.Category)
	}
}

func TestBlockOutsideHours(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "17:00"},
	}, nil)

	nested := ReservedBlock{DayOfWeek: monday, StartsAt: "10:00", EndsAt: "12:00"}
	if eval.BlockOutsideHours(nested) {
		t.Fatal("nested block should be inside hours")
	}

	pastClose := ReservedBlock{DayOfWeek: monday, StartsAt: "16:00", EndsAt: "18:00"}
	if !eval.BlockOutsideHours(pastClose) {
		t.Fatal("block past closing must be outside hours")
	}

	noHoursDay := ReservedBlock{DayOfWeek: tuesday, StartsAt: "10:00", EndsAt: "11:00"}
	if !eval.BlockOutsideHours(noHoursDay) {
		t.Fatal("day without configured hours is vacuously outside")
	}

	exact := ReservedBlock{DayOfWeek: monday, StartsAt: "09:00", EndsAt: "17:00"}
	if eval.BlockOutsideHours(exact) {
		t.Fatal("block matching the window exactly is inside")
	}
}

func TestBlockOutsideHours_SpanningTwoWindows(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "08:00", ClosesAt: "12:00"},
		{VenueID: 1, DayOfWeek: monday, OpensAt: "12:00", ClosesAt: "20:00"},
	}, nil)

	spanning := ReservedBlock{DayOfWeek: monday, StartsAt: "11:00", EndsAt: "13:00"}
	if !eval.BlockOutsideHours(spanning) {
		t.Fatal("no single window contains the block, so it is outside")
	}
}

func TestHourRange(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "17:00"},
		{VenueID: 1, DayOfWeek: tuesday, OpensAt: "07:00", ClosesAt: "21:30"},
	}, nil)

	first, last := eval.HourRange()
	if first != 7 {
		t.Fatalf("first hour: %d, want 7", first)
	}
	if last != 22 {
		t.Fatalf("last hour: %d, want 22 (21:30 rounds up)", last)
	}
}

func TestHourRange_NoRowsDefaultsToFullDay(t *testing.T) {
	eval := NewEvaluator(nil, nil)
	first, last := eval.HourRange()
	if first != 0 || last != 23 {
		t.Fatalf("expected (0, 23), got (%d, %d)", first, last)
	}
}

func TestWeekGrid(t *testing.T) {
	eval := NewEvaluator(
		[]WeeklyAvailability{{VenueID: 1, DayOfWeek: monday, OpensAt: "09:00", ClosesAt: "12:00"}},
		[]ReservedBlock{{VenueID: 1, DayOfWeek: monday, Category: CategoryLeague, StartsAt: "10:00", EndsAt: "11:00"}},
	)

	grid := eval.WeekGrid()
	for day, cells := range grid {
		if len(cells) != 4 { // hours 9..12
			t.Fatalf("day %d: %d cells, want 4", day, len(cells))
		}
	}

	mondayCells := grid[monday]
	if mondayCells[0].State != StateAvailable {
		t.Fatalf("09:00 should be available, got %s", mondayCells[0].State)
	}
	if mondayCells[1].State != StateReserved || mondayCells[1].Category != CategoryLeague {
		t.Fatalf("10:00 should be reserved(league), got %s/%s", mondayCells[1].State, mondayCells[1].Category)
	}
	if grid[sunday][0].State != StateClosed {
		t.Fatalf("sunday should be closed, got %s", grid[sunday][0].State)
	}
}

func TestMalformedTimesAreIgnored(t *testing.T) {
	eval := NewEvaluator([]WeeklyAvailability{
		{VenueID: 1, DayOfWeek: monday, OpensAt: "whenever", ClosesAt: "17:00"},
	}, nil)

	if eval.IsOpen(monday, 10) {
		t.Fatal("unparseable window must not count as open")
	}
	first, last := eval.HourRange()
	if first != 0 || last != 23 {
		t.Fatalf("malformed rows should leave the default range, got (%d, %d)", first, last)
	}
}
