package leagues

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	appdb "github.com/tgarrity/leaguedesk/internal/db"
	"github.com/tgarrity/leaguedesk/internal/fixture"
	"github.com/tgarrity/leaguedesk/internal/venueplan"
)

// seedScheduledSeason creates a league, a season, and a roster of count teams
// in creation order.
func seedScheduledSeason(t *testing.T, db *appdb.DB, count int) appdb.Season {
	t.Helper()

	league := createTestLeague(t, db, "City Hoops")
	season := createTestSeason(t, db, league.ID, "Winter 2026")
	teams := createTestTeams(t, db, league.ID, count)

	ids := make([]int64, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	if err := db.Store.ReplaceSeasonRoster(context.Background(), season.ID, ids); err != nil {
		t.Fatalf("seed roster: %v", err)
	}
	return season
}

func scheduleRequestFor(t *testing.T, season appdb.Season, path string, payload any) *http.Request {
	t.Helper()
	req := jsonRequest(http.MethodPost, fmt.Sprintf("/api/v1/seasons/%d/schedule/%s", season.ID, path), payload)
	req.SetPathValue(seasonIDPathKey, fmt.Sprint(season.ID))
	return req
}

func TestHandleSchedulePreview_NeedsTwoTeams(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 1)

	recorder := httptest.NewRecorder()
	HandleSchedulePreview(recorder, scheduleRequestFor(t, season, "preview", nil))

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleSchedulePreview_DoesNotPersist(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	recorder := httptest.NewRecorder()
	HandleSchedulePreview(recorder, scheduleRequestFor(t, season, "preview", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var payload struct {
		Rounds []fixture.Round `json:"rounds"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Rounds) != 3 {
		t.Fatalf("rounds: %d", len(payload.Rounds))
	}

	count, err := db.Store.CountSeasonGames(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 0 {
		t.Fatalf("preview persisted %d games", count)
	}
}

func TestHandleScheduleGenerate_CreatesRoundRobin(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	recorder := httptest.NewRecorder()
	HandleScheduleGenerate(recorder, scheduleRequestFor(t, season, "generate", nil))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	games, err := db.Store.ListGamesBySeason(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	// 4 teams means 3 rounds of 2 games.
	if len(games) != 6 {
		t.Fatalf("games: %d", len(games))
	}

	perRound := make(map[int]int)
	for _, game := range games {
		perRound[game.Round]++
		if game.Status != fixture.StatusScheduled {
			t.Fatalf("game %d status: %s", game.ID, game.Status)
		}
		if game.VenueID != nil {
			t.Fatalf("game %d has a venue without one being requested", game.ID)
		}
	}
	for round := 1; round <= 3; round++ {
		if perRound[round] != 2 {
			t.Fatalf("round %d has %d games", round, perRound[round])
		}
	}
}

func TestHandleScheduleGenerate_ConflictWhenScheduleExists(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	first := httptest.NewRecorder()
	HandleScheduleGenerate(first, scheduleRequestFor(t, season, "generate", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("first generate status: %d", first.Code)
	}

	second := httptest.NewRecorder()
	HandleScheduleGenerate(second, scheduleRequestFor(t, season, "generate", nil))
	if second.Code != http.StatusConflict {
		t.Fatalf("second generate status: %d", second.Code)
	}

	count, err := db.Store.CountSeasonGames(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 6 {
		t.Fatalf("games after rejected generate: %d", count)
	}
}

func TestHandleScheduleRegenerate_ReplacesSchedule(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	first := httptest.NewRecorder()
	HandleScheduleGenerate(first, scheduleRequestFor(t, season, "generate", nil))
	if first.Code != http.StatusCreated {
		t.Fatalf("generate status: %d", first.Code)
	}

	before, err := db.Store.ListGamesBySeason(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}

	second := httptest.NewRecorder()
	HandleScheduleRegenerate(second, scheduleRequestFor(t, season, "regenerate", nil))
	if second.Code != http.StatusCreated {
		t.Fatalf("regenerate status: %d", second.Code)
	}

	after, err := db.Store.ListGamesBySeason(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("games after regenerate: %d, want %d", len(after), len(before))
	}
	for _, game := range after {
		for _, old := range before {
			if game.ID == old.ID {
				t.Fatalf("game %d survived regenerate", game.ID)
			}
		}
	}
}

func TestHandleScheduleGenerate_NeedsTwoTeams(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 1)

	recorder := httptest.NewRecorder()
	HandleScheduleGenerate(recorder, scheduleRequestFor(t, season, "generate", nil))

	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", recorder.Code)
	}

	count, err := db.Store.CountSeasonGames(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 0 {
		t.Fatalf("games after rejected generate: %d", count)
	}
}

func TestHandleScheduleGenerate_SeasonNotFound(t *testing.T) {
	setupLeaguesTest(t)

	req := jsonRequest(http.MethodPost, "/api/v1/seasons/999/schedule/generate", nil)
	req.SetPathValue(seasonIDPathKey, "999")
	recorder := httptest.NewRecorder()

	HandleScheduleGenerate(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleScheduleGenerate_StampsVenue(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	venue, err := db.Store.CreateVenue(context.Background(), appdb.CreateVenueParams{Name: "Main Gym"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	// Evening hours on every day so the generated 18:00 kickoffs are always
	// inside operating hours.
	for day := 0; day < 7; day++ {
		err := db.Store.ReplaceVenueDayHours(context.Background(), venue.ID, day, []venueplan.WeeklyAvailability{
			{VenueID: venue.ID, DayOfWeek: day, OpensAt: "17:00", ClosesAt: "22:00"},
		})
		if err != nil {
			t.Fatalf("seed venue hours: %v", err)
		}
	}

	recorder := httptest.NewRecorder()
	HandleScheduleGenerate(recorder, scheduleRequestFor(t, season, "generate", map[string]any{"venueId": venue.ID}))

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	games, err := db.Store.ListGamesBySeason(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	for _, game := range games {
		if game.VenueID == nil || *game.VenueID != venue.ID {
			t.Fatalf("game %d venue: %v", game.ID, game.VenueID)
		}
	}
}

func TestHandleScheduleGenerate_VenueWithNoHoursConflicts(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	// No operating hours at all, so every hour classifies as closed.
	venue, err := db.Store.CreateVenue(context.Background(), appdb.CreateVenueParams{Name: "Dark Gym"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	recorder := httptest.NewRecorder()
	HandleScheduleGenerate(recorder, scheduleRequestFor(t, season, "generate", map[string]any{"venueId": venue.ID}))

	if recorder.Code != http.StatusConflict {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	count, err := db.Store.CountSeasonGames(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 0 {
		t.Fatalf("games after conflicting generate: %d", count)
	}
}

func TestHandleScheduleGenerate_UnknownVenue(t *testing.T) {
	db := setupLeaguesTest(t)
	season := seedScheduledSeason(t, db, 4)

	recorder := httptest.NewRecorder()
	HandleScheduleGenerate(recorder, scheduleRequestFor(t, season, "generate", map[string]any{"venueId": 999}))

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}
