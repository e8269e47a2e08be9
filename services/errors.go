package services

import (
	"errors"

	"github.com/Dosada05/tournament-engine/brackets"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Validation
	ErrInvalidTournamentInput   = errors.New("invalid tournament input")
	ErrInvalidSchedule          = errors.New("invalid tournament schedule")
	ErrInvalidResult            = brackets.ErrInvalidResult
	ErrUnsupportedFormat        = brackets.ErrUnsupportedFormat
	ErrInsufficientParticipants = brackets.ErrInsufficientParticipants

	// State conflicts
	ErrRegistrationClosed     = errors.New("tournament registration is closed")
	ErrAlreadyRegistered      = errors.New("participant is already registered for this tournament")
	ErrNotRegistered          = errors.New("participant is not registered for this tournament")
	ErrTournamentFull         = errors.New("tournament registration is full")
	ErrBracketAlreadyBuilt    = errors.New("bracket has already been built")
	ErrMatchAlreadyCompleted  = errors.New("match has already been completed")
	ErrMatchNotReady          = brackets.ErrMatchNotReady
	ErrTournamentNotActive    = errors.New("tournament is not active")
	ErrInvalidState           = errors.New("operation not allowed in the current tournament state")
	ErrConcurrentModification = errors.New("tournament was modified concurrently, retry with fresh state")

	// Authorization
	ErrNotOrganizer  = errors.New("only the tournament organizer can perform this action")
	ErrNotAuthorized = errors.New("only the match players or the organizer can perform this action")

	ErrUndecidableMatch = brackets.ErrUndecidableMatch
)
