package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	appdb "github.com/tgarrity/leaguedesk/internal/db"
)

const digestJobName = "upcoming-games-digest"

const digestQueryTimeout = 30 * time.Second

// RegisterUpcomingGamesDigest schedules a recurring job that logs every game
// kicking off in the next 24 hours. An empty cron expression disables it.
func RegisterUpcomingGamesDigest(db *appdb.DB, cronExpr string) error {
	if cronExpr == "" {
		log.Info().Msg("Upcoming games digest disabled")
		return nil
	}
	_, err := AddJob(digestJobName, cronExpr, func() {
		runUpcomingGamesDigest(db)
	})
	return err
}

func runUpcomingGamesDigest(db *appdb.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), digestQueryTimeout)
	defer cancel()

	now := time.Now()
	games, err := db.Store.ListGamesBetween(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		log.Error().Err(err).Msg("Failed to load games for digest")
		return
	}

	if len(games) == 0 {
		log.Info().Msg("No games scheduled in the next 24 hours")
		return
	}

	for _, game := range games {
		event := log.Info().
			Int64("game_id", game.ID).
			Int64("season_id", game.SeasonID).
			Int64("round", game.Round).
			Int64("home_team_id", game.HomeTeamID).
			Int64("away_team_id", game.AwayTeamID).
			Time("scheduled_at", game.ScheduledAt)
		if game.VenueID.Valid {
			event = event.Int64("venue_id", game.VenueID.Int64)
		}
		event.Msg("Upcoming game")
	}
	log.Info().Int("count", len(games)).Msg("Upcoming games digest complete")
}
