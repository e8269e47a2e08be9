package models

// StandingEntry is one participant's ranked row of the leaderboard.
type StandingEntry struct {
	ParticipantID string   `json:"participant_id"`
	Position      int      `json:"position"`
	Score         int64    `json:"score"`
	GamesPlayed   int      `json:"games_played"`
	GamesWon      int      `json:"games_won"`
	WinRate       float64  `json:"win_rate"`
	AverageTime   float64  `json:"average_time"`
	BestTime      *float64 `json:"best_time,omitempty"`
}

func (s StandingEntry) clone() StandingEntry {
	if s.BestTime != nil {
		b := *s.BestTime
		s.BestTime = &b
	}
	return s
}
