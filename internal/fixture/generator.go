// Package fixture generates round-robin schedules and commits them as games.
package fixture

// Team identifies a roster entry. The generator only relies on identity;
// everything else rides along for the callers' benefit.
type Team struct {
	ID   int64
	Name string
}

// Matchup pairs two distinct teams with home/away roles assigned.
type Matchup struct {
	Home Team
	Away Team
}

// Round is one slate of matchups. Number is 1-based.
type Round struct {
	Number   int
	Matchups []Matchup
}

// GenerateRoundRobin produces a single round-robin: n-1 rounds in which every
// team meets every other team exactly once. Rosters of 0 or 1 teams yield no
// rounds. Odd rosters are padded with a bye seat; the team paired with the bye
// simply sits out that round, so odd rosters produce (n-1)/2 matchups per round
// over n rounds.
//
// The circle method keeps seat 0 fixed and rotates the rest one position per
// round. Home/away alternates by round parity: even rounds (0-based) give the
// first seat of each pairing home, odd rounds swap. That heuristic does not
// guarantee exact home/away balance for every pair over odd round counts.
//
// Output is fully determined by the input ordering, which lets callers preview
// a schedule and commit the identical result afterwards.
func GenerateRoundRobin(teams []Team) []Round {
	if len(teams) < 2 {
		return nil
	}

	working := make([]*Team, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	if len(working)%2 == 1 {
		working = append(working, nil) // bye seat
	}

	roundCount := len(working) - 1
	rounds := make([]Round, 0, roundCount)

	for round := 0; round < roundCount; round++ {
		matchups := make([]Matchup, 0, len(working)/2)
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			home, away := *left, *right
			if round%2 == 1 {
				home, away = away, home
			}
			matchups = append(matchups, Matchup{Home: home, Away: away})
		}
		rounds = append(rounds, Round{Number: round + 1, Matchups: matchups})
		rotateSeats(working)
	}

	return rounds
}

// rotateSeats advances every seat except the anchor at index 0 by one position.
func rotateSeats(seats []*Team) {
	if len(seats) <= 2 {
		return
	}
	last := seats[len(seats)-1]
	copy(seats[2:], seats[1:len(seats)-1])
	seats[1] = last
}
