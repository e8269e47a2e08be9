package models

import "time"

// TournamentStatus is the lifecycle state of a tournament.
type TournamentStatus string

const (
	StatusUpcoming     TournamentStatus = "upcoming"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCancelled    TournamentStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s TournamentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusRegistration, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Schedule holds the four dates that drive the lifecycle.
type Schedule struct {
	RegistrationStart time.Time `json:"registration_start"`
	RegistrationEnd   time.Time `json:"registration_end"`
	TournamentStart   time.Time `json:"tournament_start"`
	TournamentEnd     time.Time `json:"tournament_end"`
}

// RegistrationOpenAt reports whether now falls in [RegistrationStart, RegistrationEnd).
func (s Schedule) RegistrationOpenAt(now time.Time) bool {
	return !now.Before(s.RegistrationStart) && now.Before(s.RegistrationEnd)
}

// Statistics are counters maintained incrementally by the engine.
type Statistics struct {
	TotalParticipants int `json:"total_participants"`
	TotalMatches      int `json:"total_matches"`
	CompletedMatches  int `json:"completed_matches"`
	ByeMatches        int `json:"bye_matches"`
}

// Tournament is the aggregate root. Everything below it is read and written
// as one unit.
type Tournament struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	Description     *string          `json:"description,omitempty"`
	Status          TournamentStatus `json:"status"`
	Format          Format           `json:"format"`
	MaxParticipants int              `json:"max_participants"`
	Schedule        Schedule         `json:"schedule"`
	OrganizerID     string           `json:"organizer_id"`
	Participants    []Participant    `json:"participants"`
	Bracket         Bracket          `json:"bracket"`
	Leaderboard     []StandingEntry  `json:"leaderboard"`
	Statistics      Statistics       `json:"statistics"`
	WinnerID        *string          `json:"winner_id,omitempty"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ParticipantIndex returns the roster position of participantID, or -1.
func (t *Tournament) ParticipantIndex(participantID string) int {
	for i := range t.Participants {
		if t.Participants[i].ParticipantID == participantID {
			return i
		}
	}
	return -1
}

// Participant returns a pointer into the roster, or nil.
func (t *Tournament) Participant(participantID string) *Participant {
	if i := t.ParticipantIndex(participantID); i >= 0 {
		return &t.Participants[i]
	}
	return nil
}

// Clone returns a deep copy so a failed command never leaks partial changes.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.WinnerID != nil {
		w := *t.WinnerID
		c.WinnerID = &w
	}
	if t.Participants != nil {
		c.Participants = make([]Participant, len(t.Participants))
		for i := range t.Participants {
			c.Participants[i] = t.Participants[i].clone()
		}
	}
	c.Bracket = t.Bracket.Clone()
	if t.Leaderboard != nil {
		c.Leaderboard = make([]StandingEntry, len(t.Leaderboard))
		for i := range t.Leaderboard {
			c.Leaderboard[i] = t.Leaderboard[i].clone()
		}
	}
	return &c
}
