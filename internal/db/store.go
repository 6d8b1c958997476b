// internal/db/store.go
package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/tgarrity/leaguedesk/internal/fixture"
	"github.com/tgarrity/leaguedesk/internal/venueplan"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every query can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store holds all hand-written queries. A Store bound to a transaction (via
// DB.WithTx) makes multi-statement operations such as schedule regeneration
// atomic; in particular it implements fixture.GameStore and
// fixture.RosterProvider for the schedule committer.
type Store struct {
	db DBTX
}

func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

type League struct {
	ID        int64
	Name      string
	Sport     string
	Status    string
	CreatedAt time.Time
}

type Season struct {
	ID        int64
	LeagueID  int64
	Name      string
	StartsOn  sql.NullTime
	EndsOn    sql.NullTime
	Status    string
	CreatedAt time.Time
}

type Team struct {
	ID        int64
	LeagueID  int64
	Name      string
	Status    string
	CreatedAt time.Time
}

type Venue struct {
	ID        int64
	Name      string
	Address   string
	Timezone  string
	Status    string
	CreatedAt time.Time
}

type Game struct {
	ID          int64
	SeasonID    int64
	Round       int64
	HomeTeamID  int64
	AwayTeamID  int64
	VenueID     sql.NullInt64
	ScheduledAt time.Time
	Status      string
	HomeScore   sql.NullInt64
	AwayScore   sql.NullInt64
	CreatedAt   time.Time
}

// --- leagues ---

type CreateLeagueParams struct {
	Name  string
	Sport string
}

func (s *Store) CreateLeague(ctx context.Context, arg CreateLeagueParams) (League, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO leagues (name, sport) VALUES (?, ?)
		 RETURNING id, name, sport, status, created_at`,
		arg.Name, arg.Sport,
	)
	return scanLeague(row)
}

func (s *Store) GetLeague(ctx context.Context, id int64) (League, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, sport, status, created_at FROM leagues WHERE id = ?`, id)
	return scanLeague(row)
}

func (s *Store) ListLeagues(ctx context.Context) ([]League, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, sport, status, created_at FROM leagues ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leagues []League
	for rows.Next() {
		var l League
		if err := rows.Scan(&l.ID, &l.Name, &l.Sport, &l.Status, &l.CreatedAt); err != nil {
			return nil, err
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

type UpdateLeagueParams struct {
	ID     int64
	Name   string
	Sport  string
	Status string
}

func (s *Store) UpdateLeague(ctx context.Context, arg UpdateLeagueParams) (League, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE leagues SET name = ?, sport = ?, status = ? WHERE id = ?
		 RETURNING id, name, sport, status, created_at`,
		arg.Name, arg.Sport, arg.Status, arg.ID,
	)
	return scanLeague(row)
}

func (s *Store) DeleteLeague(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanLeague(row *sql.Row) (League, error) {
	var l League
	err := row.Scan(&l.ID, &l.Name, &l.Sport, &l.Status, &l.CreatedAt)
	return l, err
}

// --- seasons ---

type CreateSeasonParams struct {
	LeagueID int64
	Name     string
	StartsOn sql.NullTime
	EndsOn   sql.NullTime
}

func (s *Store) CreateSeason(ctx context.Context, arg CreateSeasonParams) (Season, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO seasons (league_id, name, starts_on, ends_on) VALUES (?, ?, ?, ?)
		 RETURNING id, league_id, name, starts_on, ends_on, status, created_at`,
		arg.LeagueID, arg.Name, arg.StartsOn, arg.EndsOn,
	)
	return scanSeason(row)
}

func (s *Store) GetSeason(ctx context.Context, id int64) (Season, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, league_id, name, starts_on, ends_on, status, created_at
		 FROM seasons WHERE id = ?`, id)
	return scanSeason(row)
}

func (s *Store) ListLeagueSeasons(ctx context.Context, leagueID int64) ([]Season, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, league_id, name, starts_on, ends_on, status, created_at
		 FROM seasons WHERE league_id = ? ORDER BY id`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seasons []Season
	for rows.Next() {
		var se Season
		if err := rows.Scan(&se.ID, &se.LeagueID, &se.Name, &se.StartsOn, &se.EndsOn, &se.Status, &se.CreatedAt); err != nil {
			return nil, err
		}
		seasons = append(seasons, se)
	}
	return seasons, rows.Err()
}

func (s *Store) DeleteSeason(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM seasons WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanSeason(row *sql.Row) (Season, error) {
	var se Season
	err := row.Scan(&se.ID, &se.LeagueID, &se.Name, &se.StartsOn, &se.EndsOn, &se.Status, &se.CreatedAt)
	return se, err
}

// --- teams ---

type CreateTeamParams struct {
	LeagueID int64
	Name     string
}

func (s *Store) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO teams (league_id, name) VALUES (?, ?)
		 RETURNING id, league_id, name, status, created_at`,
		arg.LeagueID, arg.Name,
	)
	return scanTeam(row)
}

func (s *Store) GetTeam(ctx context.Context, id int64) (Team, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, league_id, name, status, created_at FROM teams WHERE id = ?`, id)
	return scanTeam(row)
}

func (s *Store) ListLeagueTeams(ctx context.Context, leagueID int64) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, league_id, name, status, created_at
		 FROM teams WHERE league_id = ? ORDER BY name, id`, leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

type UpdateTeamParams struct {
	ID     int64
	Name   string
	Status string
}

func (s *Store) UpdateTeam(ctx context.Context, arg UpdateTeamParams) (Team, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE teams SET name = ?, status = ? WHERE id = ?
		 RETURNING id, league_id, name, status, created_at`,
		arg.Name, arg.Status, arg.ID,
	)
	return scanTeam(row)
}

func (s *Store) DeleteTeam(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanTeam(row *sql.Row) (Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.LeagueID, &t.Name, &t.Status, &t.CreatedAt)
	return t, err
}

// --- season rosters ---

// ReplaceSeasonRoster replaces the season's roster with teamIDs in the given
// order. Seed order feeds the round-robin generator directly, so callers must
// treat it as significant, not incidental.
func (s *Store) ReplaceSeasonRoster(ctx context.Context, seasonID int64, teamIDs []int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM season_teams WHERE season_id = ?`, seasonID); err != nil {
		return err
	}
	for seed, teamID := range teamIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO season_teams (season_id, team_id, seed) VALUES (?, ?, ?)`,
			seasonID, teamID, seed+1); err != nil {
			return err
		}
	}
	return nil
}

// TeamsForSeason returns the season roster in seed order. Implements
// fixture.RosterProvider.
func (s *Store) TeamsForSeason(ctx context.Context, seasonID int64) ([]fixture.Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.name
		 FROM season_teams st
		 JOIN teams t ON t.id = st.team_id
		 WHERE st.season_id = ?
		 ORDER BY st.seed, t.id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []fixture.Team
	for rows.Next() {
		var t fixture.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// --- venues ---

type CreateVenueParams struct {
	Name     string
	Address  string
	Timezone string
}

func (s *Store) CreateVenue(ctx context.Context, arg CreateVenueParams) (Venue, error) {
	if arg.Timezone == "" {
		arg.Timezone = "UTC"
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO venues (name, address, timezone) VALUES (?, ?, ?)
		 RETURNING id, name, address, timezone, status, created_at`,
		arg.Name, arg.Address, arg.Timezone,
	)
	return scanVenue(row)
}

func (s *Store) GetVenue(ctx context.Context, id int64) (Venue, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, address, timezone, status, created_at FROM venues WHERE id = ?`, id)
	return scanVenue(row)
}

func (s *Store) ListVenues(ctx context.Context) ([]Venue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, timezone, status, created_at FROM venues ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []Venue
	for rows.Next() {
		var v Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Timezone, &v.Status, &v.CreatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}

type UpdateVenueParams struct {
	ID       int64
	Name     string
	Address  string
	Timezone string
	Status   string
}

func (s *Store) UpdateVenue(ctx context.Context, arg UpdateVenueParams) (Venue, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE venues SET name = ?, address = ?, timezone = ?, status = ? WHERE id = ?
		 RETURNING id, name, address, timezone, status, created_at`,
		arg.Name, arg.Address, arg.Timezone, arg.Status, arg.ID,
	)
	return scanVenue(row)
}

func (s *Store) DeleteVenue(ctx context.Context, id int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanVenue(row *sql.Row) (Venue, error) {
	var v Venue
	err := row.Scan(&v.ID, &v.Name, &v.Address, &v.Timezone, &v.Status, &v.CreatedAt)
	return v, err
}

// --- venue hours ---

// ReplaceVenueDayHours swaps out every window for one venue/day. Multiple
// windows per day are allowed.
func (s *Store) ReplaceVenueDayHours(ctx context.Context, venueID int64, day int, windows []venueplan.WeeklyAvailability) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM venue_hours WHERE venue_id = ? AND day_of_week = ?`, venueID, day); err != nil {
		return err
	}
	for _, w := range windows {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO venue_hours (venue_id, day_of_week, opens_at, closes_at) VALUES (?, ?, ?, ?)`,
			venueID, day, w.OpensAt, w.ClosesAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteVenueDayHours(ctx context.Context, venueID int64, day int) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM venue_hours WHERE venue_id = ? AND day_of_week = ?`, venueID, day)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) ListVenueHours(ctx context.Context, venueID int64) ([]venueplan.WeeklyAvailability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT venue_id, day_of_week, opens_at, closes_at
		 FROM venue_hours WHERE venue_id = ? ORDER BY day_of_week, opens_at, id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []venueplan.WeeklyAvailability
	for rows.Next() {
		var w venueplan.WeeklyAvailability
		if err := rows.Scan(&w.VenueID, &w.DayOfWeek, &w.OpensAt, &w.ClosesAt); err != nil {
			return nil, err
		}
		hours = append(hours, w)
	}
	return hours, rows.Err()
}

// --- reserved blocks ---

func (s *Store) CreateReservedBlock(ctx context.Context, block venueplan.ReservedBlock) (venueplan.ReservedBlock, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO reserved_blocks (venue_id, day_of_week, category, starts_at, ends_at, note)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id, venue_id, day_of_week, category, starts_at, ends_at, note`,
		block.VenueID, block.DayOfWeek, string(block.Category), block.StartsAt, block.EndsAt, block.Note,
	)
	return scanReservedBlock(row)
}

// ListReservedBlocks returns blocks in insertion order. The evaluator's
// last-wins overlap rule makes this ordering load-bearing.
func (s *Store) ListReservedBlocks(ctx context.Context, venueID int64) ([]venueplan.ReservedBlock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, venue_id, day_of_week, category, starts_at, ends_at, note
		 FROM reserved_blocks WHERE venue_id = ? ORDER BY id`, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []venueplan.ReservedBlock
	for rows.Next() {
		var b venueplan.ReservedBlock
		var category string
		if err := rows.Scan(&b.ID, &b.VenueID, &b.DayOfWeek, &category, &b.StartsAt, &b.EndsAt, &b.Note); err != nil {
			return nil, err
		}
		b.Category = venueplan.UsageCategory(category)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *Store) DeleteReservedBlock(ctx context.Context, venueID, blockID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reserved_blocks WHERE id = ? AND venue_id = ?`, blockID, venueID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanReservedBlock(row *sql.Row) (venueplan.ReservedBlock, error) {
	var b venueplan.ReservedBlock
	var category string
	err := row.Scan(&b.ID, &b.VenueID, &b.DayOfWeek, &category, &b.StartsAt, &b.EndsAt, &b.Note)
	b.Category = venueplan.UsageCategory(category)
	return b, err
}

// --- games ---

// SaveGame persists one generated game. Implements fixture.GameStore.
func (s *Store) SaveGame(ctx context.Context, rec fixture.GameRecord) (fixture.GameRecord, error) {
	var venueID sql.NullInt64
	if rec.VenueID != nil {
		venueID = sql.NullInt64{Int64: *rec.VenueID, Valid: true}
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO games (season_id, round, home_team_id, away_team_id, venue_id, scheduled_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		rec.SeasonID, rec.Round, rec.HomeTeamID, rec.AwayTeamID, venueID, rec.ScheduledAt, rec.Status,
	)
	if err := row.Scan(&rec.ID); err != nil {
		return fixture.GameRecord{}, err
	}
	return rec, nil
}

// DeleteGamesBySeason removes every game for the season. Implements
// fixture.GameStore.
func (s *Store) DeleteGamesBySeason(ctx context.Context, seasonID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE season_id = ?`, seasonID)
	return err
}

// ListGamesBySeason returns the season's games as generator records.
// Implements fixture.GameStore.
func (s *Store) ListGamesBySeason(ctx context.Context, seasonID int64) ([]fixture.GameRecord, error) {
	games, err := s.ListSeasonGames(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	records := make([]fixture.GameRecord, 0, len(games))
	for _, g := range games {
		rec := fixture.GameRecord{
			ID:          g.ID,
			SeasonID:    g.SeasonID,
			Round:       int(g.Round),
			HomeTeamID:  g.HomeTeamID,
			AwayTeamID:  g.AwayTeamID,
			ScheduledAt: g.ScheduledAt,
			Status:      g.Status,
		}
		if g.VenueID.Valid {
			venueID := g.VenueID.Int64
			rec.VenueID = &venueID
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) ListSeasonGames(ctx context.Context, seasonID int64) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season_id, round, home_team_id, away_team_id, venue_id,
		        scheduled_at, status, home_score, away_score, created_at
		 FROM games WHERE season_id = ? ORDER BY round, id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGames(rows)
}

func (s *Store) GetGame(ctx context.Context, id int64) (Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, season_id, round, home_team_id, away_team_id, venue_id,
		        scheduled_at, status, home_score, away_score, created_at
		 FROM games WHERE id = ?`, id)
	var g Game
	err := row.Scan(&g.ID, &g.SeasonID, &g.Round, &g.HomeTeamID, &g.AwayTeamID, &g.VenueID,
		&g.ScheduledAt, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt)
	return g, err
}

func (s *Store) CountSeasonGames(ctx context.Context, seasonID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM games WHERE season_id = ?`, seasonID).Scan(&count)
	return count, err
}

type UpdateGameResultParams struct {
	ID        int64
	Status    string
	HomeScore sql.NullInt64
	AwayScore sql.NullInt64
}

func (s *Store) UpdateGameResult(ctx context.Context, arg UpdateGameResultParams) (Game, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE games SET status = ?, home_score = ?, away_score = ? WHERE id = ?
		 RETURNING id, season_id, round, home_team_id, away_team_id, venue_id,
		           scheduled_at, status, home_score, away_score, created_at`,
		arg.Status, arg.HomeScore, arg.AwayScore, arg.ID,
	)
	var g Game
	err := row.Scan(&g.ID, &g.SeasonID, &g.Round, &g.HomeTeamID, &g.AwayTeamID, &g.VenueID,
		&g.ScheduledAt, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt)
	return g, err
}

type UpdateGameScheduleParams struct {
	ID          int64
	VenueID     sql.NullInt64
	ScheduledAt time.Time
}

func (s *Store) UpdateGameSchedule(ctx context.Context, arg UpdateGameScheduleParams) (Game, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE games SET venue_id = ?, scheduled_at = ? WHERE id = ?
		 RETURNING id, season_id, round, home_team_id, away_team_id, venue_id,
		           scheduled_at, status, home_score, away_score, created_at`,
		arg.VenueID, arg.ScheduledAt, arg.ID,
	)
	var g Game
	err := row.Scan(&g.ID, &g.SeasonID, &g.Round, &g.HomeTeamID, &g.AwayTeamID, &g.VenueID,
		&g.ScheduledAt, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt)
	return g, err
}

// ListGamesBetween returns games scheduled in [from, to), for the digest job.
func (s *Store) ListGamesBetween(ctx context.Context, from, to time.Time) ([]Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season_id, round, home_team_id, away_team_id, venue_id,
		        scheduled_at, status, home_score, away_score, created_at
		 FROM games WHERE scheduled_at >= ? AND scheduled_at < ? ORDER BY scheduled_at, id`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGames(rows)
}

func collectGames(rows *sql.Rows) ([]Game, error) {
	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.SeasonID, &g.Round, &g.HomeTeamID, &g.AwayTeamID, &g.VenueID,
			&g.ScheduledAt, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
