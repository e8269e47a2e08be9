package brackets

import (
	"fmt"
	"math"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// Outcome is the decided result of a two-player match.
type Outcome struct {
	Winner       string
	Loser        string
	WinnerResult models.GameResult
	LoserResult  models.GameResult
}

// DetermineWinner applies, in order: among players who completed the game the
// higher score wins with ties going to the lower time; if nobody completed the
// strictly higher score wins; anything else is ErrUndecidableMatch.
func DetermineWinner(match *models.Match, results []models.GameResult) (Outcome, error) {
	if !match.Ready() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrMatchNotReady, match.MatchID)
	}

	r1, r2, err := pairResults(match, results)
	if err != nil {
		return Outcome{}, err
	}

	first, ok := decide(r1, r2)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUndecidableMatch, match.MatchID)
	}
	if first {
		return Outcome{Winner: r1.ParticipantID, Loser: r2.ParticipantID, WinnerResult: r1, LoserResult: r2}, nil
	}
	return Outcome{Winner: r2.ParticipantID, Loser: r1.ParticipantID, WinnerResult: r2, LoserResult: r1}, nil
}

// decide reports whether r1 beats r2; ok is false when no rule separates them.
func decide(r1, r2 models.GameResult) (first bool, ok bool) {
	switch {
	case r1.Completed && r2.Completed:
		if r1.Score != r2.Score {
			return r1.Score > r2.Score, true
		}
		if r1.TimeElapsed != r2.TimeElapsed {
			return r1.TimeElapsed < r2.TimeElapsed, true
		}
		return false, false
	case r1.Completed:
		return true, true
	case r2.Completed:
		return false, true
	case r1.Score != r2.Score:
		return r1.Score > r2.Score, true
	default:
		return false, false
	}
}

// pairResults validates the payload and orders it as (player1, player2).
func pairResults(match *models.Match, results []models.GameResult) (models.GameResult, models.GameResult, error) {
	var r1, r2 models.GameResult
	if len(results) != 2 {
		return r1, r2, fmt.Errorf("%w: expected 2 results, got %d", ErrInvalidResult, len(results))
	}

	var seen1, seen2 bool
	for _, res := range results {
		if res.Score < 0 {
			return r1, r2, fmt.Errorf("%w: negative score for %s", ErrInvalidResult, res.ParticipantID)
		}
		if res.TimeElapsed < 0 || math.IsNaN(res.TimeElapsed) || math.IsInf(res.TimeElapsed, 0) {
			return r1, r2, fmt.Errorf("%w: invalid time for %s", ErrInvalidResult, res.ParticipantID)
		}
		switch res.ParticipantID {
		case *match.Player1:
			if seen1 {
				return r1, r2, fmt.Errorf("%w: duplicate result for %s", ErrInvalidResult, res.ParticipantID)
			}
			r1, seen1 = res, true
		case *match.Player2:
			if seen2 {
				return r1, r2, fmt.Errorf("%w: duplicate result for %s", ErrInvalidResult, res.ParticipantID)
			}
			r2, seen2 = res, true
		default:
			return r1, r2, fmt.Errorf("%w: %q is not a player of %s", ErrInvalidResult, res.ParticipantID, match.MatchID)
		}
	}
	return r1, r2, nil
}

// RecordOutcome marks the match completed. It is the only place a two-player
// match gets its winner, and it is never called twice for one match.
func RecordOutcome(match *models.Match, outcome Outcome, now time.Time) {
	winner, loser := outcome.Winner, outcome.Loser
	end := now
	match.Status = models.MatchCompleted
	match.Winner = &winner
	match.Loser = &loser
	match.EndTime = &end
	match.GameResults = []models.GameResult{outcome.WinnerResult, outcome.LoserResult}
	if match.StartTime == nil {
		start := now
		match.StartTime = &start
	}
}
