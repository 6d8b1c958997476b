package fixture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// kickoffHour is the local hour games are anchored to: round 1 lands on the
// commit day at 18:00, each later round one calendar day after the previous.
const kickoffHour = 18

var ErrNothingToSchedule = errors.New("at least two teams are required to schedule")

// GameRecord is one schedulable game. The committer creates records with
// status "scheduled" and no score; score entry and rescheduling happen through
// other flows.
type GameRecord struct {
	ID          int64
	SeasonID    int64
	Round       int
	HomeTeamID  int64
	AwayTeamID  int64
	VenueID     *int64
	ScheduledAt time.Time
	Status      string
}

// GameStore is the persistence collaborator for committed schedules.
// Implementations must make DeleteGamesBySeason plus the subsequent SaveGame
// calls of a single commit atomic; the db package satisfies this by binding a
// store to one transaction.
type GameStore interface {
	SaveGame(ctx context.Context, rec GameRecord) (GameRecord, error)
	DeleteGamesBySeason(ctx context.Context, seasonID int64) error
	ListGamesBySeason(ctx context.Context, seasonID int64) ([]GameRecord, error)
}

// RosterProvider supplies the teams entering a season's round-robin. The
// returned order seeds the generator, so it is significant: the same roster in
// a different order is a different schedule.
type RosterProvider interface {
	TeamsForSeason(ctx context.Context, seasonID int64) ([]Team, error)
}

// ConflictCheck vets a game before it is written. Date assignment knows
// nothing about venue availability on its own; callers that want venue-aware
// commits wire this to the venueplan evaluator. A non-nil error aborts the
// whole commit.
type ConflictCheck func(ctx context.Context, rec GameRecord) error

// CommitOptions control a single commit.
type CommitOptions struct {
	// Overwrite deletes the season's existing games before inserting the new
	// schedule. Delete and insert run against the same store, so a
	// transaction-bound store makes the pair atomic.
	Overwrite bool
	// VenueID, when set, is stamped on every created game.
	VenueID *int64
	// Conflict, when set, runs against every game before it is saved.
	Conflict ConflictCheck
}

// Committer turns a season roster into persisted games. Commits for the same
// season are serialized so a regenerate cannot interleave its delete with
// another commit's inserts.
type Committer struct {
	roster RosterProvider
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewCommitter(roster RosterProvider) *Committer {
	return &Committer{
		roster: roster,
		now:    time.Now,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// WithClock overrides the time source. Intended for tests.
func (c *Committer) WithClock(now func() time.Time) *Committer {
	c.now = now
	return c
}

// Commit generates the season's round-robin and writes one game per matchup
// through store. Round k is scheduled at the commit day's 18:00 plus k-1 days.
// Returns ErrNothingToSchedule when the roster has fewer than two teams.
func (c *Committer) Commit(ctx context.Context, store GameStore, seasonID int64, opts CommitOptions) ([]GameRecord, error) {
	lock := c.seasonLock(seasonID)
	lock.Lock()
	defer lock.Unlock()

	teams, err := c.roster.TeamsForSeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("load season roster: %w", err)
	}
	if len(teams) < 2 {
		return nil, ErrNothingToSchedule
	}

	if opts.Overwrite {
		if err := store.DeleteGamesBySeason(ctx, seasonID); err != nil {
			return nil, fmt.Errorf("delete existing games: %w", err)
		}
	}

	rounds := GenerateRoundRobin(teams)
	base := c.kickoff()

	created := make([]GameRecord, 0, len(teams)*(len(teams)-1)/2)
	for _, round := range rounds {
		scheduledAt := base.AddDate(0, 0, round.Number-1)
		for _, m := range round.Matchups {
			rec := GameRecord{
				SeasonID:    seasonID,
				Round:       round.Number,
				HomeTeamID:  m.Home.ID,
				AwayTeamID:  m.Away.ID,
				VenueID:     opts.VenueID,
				ScheduledAt: scheduledAt,
				Status:      StatusScheduled,
			}
			if opts.Conflict != nil {
				if err := opts.Conflict(ctx, rec); err != nil {
					return nil, fmt.Errorf("round %d conflict: %w", round.Number, err)
				}
			}
			saved, err := store.SaveGame(ctx, rec)
			if err != nil {
				return nil, fmt.Errorf("save game: %w", err)
			}
			created = append(created, saved)
		}
	}

	return created, nil
}

// kickoff returns the commit day's date at the kickoff hour.
func (c *Committer) kickoff() time.Time {
	now := c.now()
	return time.Date(now.Year(), now.Month(), now.Day(), kickoffHour, 0, 0, 0, now.Location())
}

func (c *Committer) seasonLock(seasonID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[seasonID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[seasonID] = lock
	}
	return lock
}
