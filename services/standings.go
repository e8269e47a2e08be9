package services

import (
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

func winRate(s models.ParticipantStats) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.GamesWon) / float64(s.GamesPlayed)
}

// standingLess orders by total score desc, win rate desc, then best time asc
// with a missing time ranked last.
func standingLess(a, b models.ParticipantStats) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if wa, wb := winRate(a), winRate(b); wa != wb {
		return wa > wb
	}
	switch {
	case a.BestTime == nil:
		return false
	case b.BestTime == nil:
		return true
	default:
		return *a.BestTime < *b.BestTime
	}
}

// RecomputeLeaderboard builds the standings from participant stats. Equal
// entries keep roster order and positions are dense from 1.
func RecomputeLeaderboard(participants []models.Participant) []models.StandingEntry {
	ordered := make([]models.Participant, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return standingLess(ordered[i].Stats, ordered[j].Stats)
	})

	standings := make([]models.StandingEntry, len(ordered))
	for i, p := range ordered {
		var best *float64
		if p.Stats.BestTime != nil {
			b := *p.Stats.BestTime
			best = &b
		}
		standings[i] = models.StandingEntry{
			ParticipantID: p.ParticipantID,
			Position:      i + 1,
			Score:         p.Stats.TotalScore,
			GamesPlayed:   p.Stats.GamesPlayed,
			GamesWon:      p.Stats.GamesWon,
			WinRate:       winRate(p.Stats),
			AverageTime:   p.Stats.AverageTime,
			BestTime:      best,
		}
	}
	return standings
}

// applyGameStats folds one game into a participant's cumulative stats.
func applyGameStats(p *models.Participant, result models.GameResult, won bool) {
	s := &p.Stats
	s.GamesPlayed++
	if won {
		s.GamesWon++
	}
	s.TotalScore += result.Score
	s.AverageTime += (result.TimeElapsed - s.AverageTime) / float64(s.GamesPlayed)
	if result.TimeElapsed > 0 && (s.BestTime == nil || result.TimeElapsed < *s.BestTime) {
		best := result.TimeElapsed
		s.BestTime = &best
	}
}
