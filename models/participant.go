package models

import "time"

type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantActive     ParticipantStatus = "active"
	ParticipantEliminated ParticipantStatus = "eliminated"
	ParticipantWinner     ParticipantStatus = "winner"
)

// ParticipantStats are cumulative over every resolved match of the tournament.
// BestTime is nil until a time has been recorded.
type ParticipantStats struct {
	GamesPlayed int      `json:"games_played"`
	GamesWon    int      `json:"games_won"`
	TotalScore  int64    `json:"total_score"`
	AverageTime float64  `json:"average_time"`
	BestTime    *float64 `json:"best_time,omitempty"`
}

type Participant struct {
	ParticipantID string            `json:"participant_id"`
	RegisteredAt  time.Time         `json:"registered_at"`
	Seed          int               `json:"seed"`
	Status        ParticipantStatus `json:"status"`
	Stats         ParticipantStats  `json:"stats"`
}

func (p Participant) clone() Participant {
	if p.Stats.BestTime != nil {
		b := *p.Stats.BestTime
		p.Stats.BestTime = &b
	}
	return p
}
