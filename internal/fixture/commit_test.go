package fixture

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memoryStore struct {
	games  []GameRecord
	nextID int64
}

func (s *memoryStore) SaveGame(_ context.Context, rec GameRecord) (GameRecord, error) {
	s.nextID++
	rec.ID = s.nextID
	s.games = append(s.games, rec)
	return rec, nil
}

func (s *memoryStore) DeleteGamesBySeason(_ context.Context, seasonID int64) error {
	kept := s.games[:0]
	for _, g := range s.games {
		if g.SeasonID != seasonID {
			kept = append(kept, g)
		}
	}
	s.games = kept
	return nil
}

func (s *memoryStore) ListGamesBySeason(_ context.Context, seasonID int64) ([]GameRecord, error) {
	var out []GameRecord
	for _, g := range s.games {
		if g.SeasonID == seasonID {
			out = append(out, g)
		}
	}
	return out, nil
}

type staticRoster struct {
	teams []Team
	err   error
}

func (r staticRoster) TeamsForSeason(context.Context, int64) ([]Team, error) {
	return r.teams, r.err
}

func testClock() func() time.Time {
	fixed := time.Date(2026, time.March, 9, 10, 30, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestCommit_CreatesScheduledGames(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{teams: makeTeams(4)}).WithClock(testClock())

	created, err := committer.Commit(context.Background(), store, 7, CommitOptions{})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(created) != 6 {
		t.Fatalf("expected 6 games, got %d", len(created))
	}

	for _, g := range created {
		if g.Status != StatusScheduled {
			t.Fatalf("game %d status: %s", g.ID, g.Status)
		}
		if g.SeasonID != 7 {
			t.Fatalf("game %d season: %d", g.ID, g.SeasonID)
		}
		if g.VenueID != nil {
			t.Fatalf("game %d unexpectedly has a venue", g.ID)
		}
	}
}

func TestCommit_RoundDatesAdvanceOneDayFromKickoff(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{teams: makeTeams(4)}).WithClock(testClock())

	created, err := committer.Commit(context.Background(), store, 1, CommitOptions{})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	base := time.Date(2026, time.March, 9, 18, 0, 0, 0, time.UTC)
	for _, g := range created {
		want := base.AddDate(0, 0, g.Round-1)
		if !g.ScheduledAt.Equal(want) {
			t.Fatalf("round %d scheduled at %v, want %v", g.Round, g.ScheduledAt, want)
		}
	}
}

func TestCommit_NothingToSchedule(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{teams: makeTeams(1)}).WithClock(testClock())

	_, err := committer.Commit(context.Background(), store, 1, CommitOptions{})
	if !errors.Is(err, ErrNothingToSchedule) {
		t.Fatalf("expected ErrNothingToSchedule, got %v", err)
	}
	if len(store.games) != 0 {
		t.Fatalf("expected no games written, got %d", len(store.games))
	}
}

func TestCommit_OverwriteIsIdempotent(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{teams: makeTeams(5)}).WithClock(testClock())

	first, err := committer.Commit(context.Background(), store, 3, CommitOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("first commit: %v", err)
	}
	second, err := committer.Commit(context.Background(), store, 3, CommitOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("second commit: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("commit sizes differ: %d vs %d", len(first), len(second))
	}
	if len(store.games) != len(second) {
		t.Fatalf("store holds %d games, want %d", len(store.games), len(second))
	}
}

func TestCommit_OverwriteLeavesOtherSeasonsAlone(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{teams: makeTeams(3)}).WithClock(testClock())

	if _, err := committer.Commit(context.Background(), store, 1, CommitOptions{}); err != nil {
		t.Fatalf("season 1 commit: %v", err)
	}
	if _, err := committer.Commit(context.Background(), store, 2, CommitOptions{Overwrite: true}); err != nil {
		t.Fatalf("season 2 commit: %v", err)
	}

	seasonOne, _ := store.ListGamesBySeason(context.Background(), 1)
	if len(seasonOne) != 3 {
		t.Fatalf("season 1 games: %d, want 3", len(seasonOne))
	}
}

func TestCommit_ConflictHookAbortsBeforeSave(t *testing.T) {
	store := &memoryStore{}
	venueID := int64(9)
	committer := NewCommitter(staticRoster{teams: makeTeams(4)}).WithClock(testClock())

	conflictErr := errors.New("venue is closed on that day")
	_, err := committer.Commit(context.Background(), store, 1, CommitOptions{
		VenueID: &venueID,
		Conflict: func(_ context.Context, rec GameRecord) error {
			if rec.Round == 2 {
				return conflictErr
			}
			return nil
		},
	})
	if !errors.Is(err, conflictErr) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCommit_VenueStampedOnEveryGame(t *testing.T) {
	store := &memoryStore{}
	venueID := int64(4)
	committer := NewCommitter(staticRoster{teams: makeTeams(4)}).WithClock(testClock())

	created, err := committer.Commit(context.Background(), store, 1, CommitOptions{VenueID: &venueID})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	for _, g := range created {
		if g.VenueID == nil || *g.VenueID != venueID {
			t.Fatalf("game %d venue not stamped", g.ID)
		}
	}
}

func TestCommit_RosterErrorDistinctFromEmptyRoster(t *testing.T) {
	store := &memoryStore{}
	committer := NewCommitter(staticRoster{err: errors.New("roster lookup failed")}).WithClock(testClock())

	_, err := committer.Commit(context.Background(), store, 1, CommitOptions{})
	if err == nil || errors.Is(err, ErrNothingToSchedule) {
		t.Fatalf("expected wrapped roster error, got %v", err)
	}
}
