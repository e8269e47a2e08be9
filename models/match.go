package models

import (
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchBye        MatchStatus = "bye"
)

// Resolved reports whether the match already has a final winner.
func (s MatchStatus) Resolved() bool {
	return s == MatchCompleted || s == MatchBye
}

// GameResult is one player's outcome of the underlying game. The engine only
// reads it to pick a winner.
type GameResult struct {
	ParticipantID string  `json:"participant_id"`
	Score         int64   `json:"score"`
	TimeElapsed   float64 `json:"time_elapsed"`
	Completed     bool    `json:"completed"`
}

// Match is one slot of the bracket. A nil Player2 on a bye match means no
// opponent was available.
type Match struct {
	MatchID     string       `json:"match_id"`
	Player1     *string      `json:"player1"`
	Player2     *string      `json:"player2"`
	Status      MatchStatus  `json:"status"`
	Winner      *string      `json:"winner,omitempty"`
	Loser       *string      `json:"loser,omitempty"`
	GameResults []GameResult `json:"game_results,omitempty"`
	StartTime   *time.Time   `json:"start_time,omitempty"`
	EndTime     *time.Time   `json:"end_time,omitempty"`
}

// HasPlayer reports whether participantID occupies either slot.
func (m *Match) HasPlayer(participantID string) bool {
	return (m.Player1 != nil && *m.Player1 == participantID) ||
		(m.Player2 != nil && *m.Player2 == participantID)
}

// Ready reports whether both slots are filled.
func (m *Match) Ready() bool {
	return m.Player1 != nil && m.Player2 != nil
}

func (m Match) clone() Match {
	m.Player1 = cloneString(m.Player1)
	m.Player2 = cloneString(m.Player2)
	m.Winner = cloneString(m.Winner)
	m.Loser = cloneString(m.Loser)
	m.StartTime = cloneTime(m.StartTime)
	m.EndTime = cloneTime(m.EndTime)
	if m.GameResults != nil {
		m.GameResults = append([]GameResult(nil), m.GameResults...)
	}
	return m
}

type Round struct {
	RoundNumber int     `json:"round_number"`
	Matches     []Match `json:"matches"`
}

// Bracket stores rounds and matches in flat, position-addressed slices:
// the match at (r, m) feeds (r+1, m/2).
type Bracket struct {
	Rounds []Round `json:"rounds"`
}

// MatchID builds the stable identifier for the 0-based (round, match) position.
func MatchID(roundIdx, matchIdx int) string {
	return fmt.Sprintf("R%dM%d", roundIdx+1, matchIdx+1)
}

// Locate returns the 0-based position of matchID.
func (b *Bracket) Locate(matchID string) (roundIdx, matchIdx int, ok bool) {
	for r := range b.Rounds {
		for m := range b.Rounds[r].Matches {
			if b.Rounds[r].Matches[m].MatchID == matchID {
				return r, m, true
			}
		}
	}
	return 0, 0, false
}

// Built reports whether the bracket has been materialised.
func (b *Bracket) Built() bool {
	return len(b.Rounds) > 0
}

// Final returns the single match of the last round, or nil before building.
func (b *Bracket) Final() *Match {
	if len(b.Rounds) == 0 {
		return nil
	}
	last := b.Rounds[len(b.Rounds)-1].Matches
	if len(last) != 1 {
		return nil
	}
	return &last[0]
}

func (b Bracket) Clone() Bracket {
	if b.Rounds == nil {
		return b
	}
	rounds := make([]Round, len(b.Rounds))
	for r := range b.Rounds {
		rounds[r].RoundNumber = b.Rounds[r].RoundNumber
		rounds[r].Matches = make([]Match, len(b.Rounds[r].Matches))
		for m := range b.Rounds[r].Matches {
			rounds[r].Matches[m] = b.Rounds[r].Matches[m].clone()
		}
	}
	return Bracket{Rounds: rounds}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
