package models

import "time"

type EventType string

const (
	EventTournamentCreated     EventType = "tournament.created"
	EventRegistrationOpened    EventType = "tournament.registration_opened"
	EventParticipantRegistered EventType = "participant.registered"
	EventParticipantLeft       EventType = "participant.unregistered"
	EventTournamentStarted     EventType = "tournament.started"
	EventMatchStarted          EventType = "match.started"
	EventMatchCompleted        EventType = "match.completed"
	EventTournamentCompleted   EventType = "tournament.completed"
	EventTournamentCancelled   EventType = "tournament.cancelled"
)

// TournamentEvent is the "tournament state changed" fact emitted after every
// successful write. Delivery is up to the publishers.
type TournamentEvent struct {
	Type          EventType        `json:"type"`
	TournamentID  string           `json:"tournament_id"`
	Status        TournamentStatus `json:"status"`
	Version       int              `json:"version"`
	MatchID       string           `json:"match_id,omitempty"`
	ParticipantID string           `json:"participant_id,omitempty"`
	WinnerID      string           `json:"winner_id,omitempty"`
	ArchiveURL    string           `json:"archive_url,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
