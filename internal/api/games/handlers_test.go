package games

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appdb "github.com/tgarrity/leaguedesk/internal/db"
	"github.com/tgarrity/leaguedesk/internal/fixture"
	"github.com/tgarrity/leaguedesk/internal/testutil"
)

func setupGamesTest(t *testing.T) *appdb.DB {
	t.Helper()

	db := testutil.NewTestDB(t)

	store = nil
	InitHandlers(db)

	t.Cleanup(func() {
		store = nil
	})

	return db
}

// seedGame creates the league, season, and two teams a game needs, then saves
// one scheduled round-one game between them.
func seedGame(t *testing.T, db *appdb.DB) fixture.GameRecord {
	t.Helper()
	ctx := context.Background()

	league, err := db.Store.CreateLeague(ctx, appdb.CreateLeagueParams{Name: "City Hoops", Sport: "basketball"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	season, err := db.Store.CreateSeason(ctx, appdb.CreateSeasonParams{LeagueID: league.ID, Name: "Winter 2026"})
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	home, err := db.Store.CreateTeam(ctx, appdb.CreateTeamParams{LeagueID: league.ID, Name: "Hawks"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	away, err := db.Store.CreateTeam(ctx, appdb.CreateTeamParams{LeagueID: league.ID, Name: "Owls"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	game, err := db.Store.SaveGame(ctx, fixture.GameRecord{
		SeasonID:    season.ID,
		Round:       1,
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
		ScheduledAt: time.Date(2026, time.February, 2, 18, 0, 0, 0, time.UTC),
		Status:      fixture.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("save game: %v", err)
	}
	return game
}

func jsonRequest(method, target string, payload any) *http.Request {
	encoded, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(string(encoded)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func gameRequest(gameID int64, method, suffix string, payload any) *http.Request {
	req := jsonRequest(method, fmt.Sprintf("/api/v1/games/%d%s", gameID, suffix), payload)
	req.SetPathValue(gameIDPathKey, fmt.Sprint(gameID))
	return req
}

func TestHandleGameDetail_NotFound(t *testing.T) {
	setupGamesTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/999", nil)
	req.SetPathValue(gameIDPathKey, "999")
	recorder := httptest.NewRecorder()

	HandleGameDetail(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameResult_RecordsScore(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPatch, "", map[string]any{
		"status":    "completed",
		"homeScore": 21,
		"awayScore": 18,
	})
	recorder := httptest.NewRecorder()

	HandleGameResult(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	stored, err := db.Store.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("fetch game: %v", err)
	}
	if stored.Status != fixture.StatusCompleted {
		t.Fatalf("status: %s", stored.Status)
	}
	if !stored.HomeScore.Valid || stored.HomeScore.Int64 != 21 {
		t.Fatalf("home score: %+v", stored.HomeScore)
	}
	if !stored.AwayScore.Valid || stored.AwayScore.Int64 != 18 {
		t.Fatalf("away score: %+v", stored.AwayScore)
	}
}

func TestHandleGameResult_ScoresMustPair(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPatch, "", map[string]any{"homeScore": 21})
	recorder := httptest.NewRecorder()

	HandleGameResult(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameResult_CompletedRequiresScore(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPatch, "", map[string]any{"status": "completed"})
	recorder := httptest.NewRecorder()

	HandleGameResult(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameResult_NegativeScore(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPatch, "", map[string]any{
		"homeScore": -1,
		"awayScore": 10,
	})
	recorder := httptest.NewRecorder()

	HandleGameResult(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameResult_InvalidStatus(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPatch, "", map[string]any{"status": "cancelled"})
	recorder := httptest.NewRecorder()

	HandleGameResult(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameReschedule_MovesGame(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	venue, err := db.Store.CreateVenue(context.Background(), appdb.CreateVenueParams{Name: "Main Gym"})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}

	want := time.Date(2026, time.February, 9, 19, 30, 0, 0, time.UTC)
	req := gameRequest(game.ID, http.MethodPut, "/schedule", map[string]any{
		"venueId":     venue.ID,
		"scheduledAt": want.Format(time.RFC3339),
	})
	recorder := httptest.NewRecorder()

	HandleGameReschedule(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	stored, err := db.Store.GetGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("fetch game: %v", err)
	}
	if !stored.ScheduledAt.Equal(want) {
		t.Fatalf("scheduled at: %s", stored.ScheduledAt)
	}
	if !stored.VenueID.Valid || stored.VenueID.Int64 != venue.ID {
		t.Fatalf("venue: %+v", stored.VenueID)
	}
}

func TestHandleGameReschedule_UnknownVenue(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPut, "/schedule", map[string]any{
		"venueId":     999,
		"scheduledAt": "2026-02-09T19:30:00Z",
	})
	recorder := httptest.NewRecorder()

	HandleGameReschedule(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleGameReschedule_InvalidTimestamp(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	req := gameRequest(game.ID, http.MethodPut, "/schedule", map[string]any{
		"scheduledAt": "next tuesday",
	})
	recorder := httptest.NewRecorder()

	HandleGameReschedule(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", recorder.Code)
	}
}

func TestHandleSeasonGamesList_OrdersByRound(t *testing.T) {
	db := setupGamesTest(t)
	game := seedGame(t, db)

	later, err := db.Store.SaveGame(context.Background(), fixture.GameRecord{
		SeasonID:    game.SeasonID,
		Round:       2,
		HomeTeamID:  game.AwayTeamID,
		AwayTeamID:  game.HomeTeamID,
		ScheduledAt: time.Date(2026, time.February, 3, 18, 0, 0, 0, time.UTC),
		Status:      fixture.StatusScheduled,
	})
	if err != nil {
		t.Fatalf("save game: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/seasons/%d/games", game.SeasonID), nil)
	req.SetPathValue(seasonIDPathKey, fmt.Sprint(game.SeasonID))
	recorder := httptest.NewRecorder()

	HandleSeasonGamesList(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", recorder.Code, recorder.Body.String())
	}

	var payload struct {
		Games []gameResponse `json:"games"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Games) != 2 {
		t.Fatalf("games: %d", len(payload.Games))
	}
	if payload.Games[0].ID != game.ID || payload.Games[1].ID != later.ID {
		t.Fatalf("order: %d, %d", payload.Games[0].ID, payload.Games[1].ID)
	}
}
