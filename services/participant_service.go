package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

type ParticipantService interface {
	Register(ctx context.Context, tournamentID, participantID string) (*models.Tournament, error)
	Unregister(ctx context.Context, tournamentID, participantID string) error
}

type participantService struct {
	Deps
}

func NewParticipantService(deps Deps) ParticipantService {
	return &participantService{Deps: deps.withDefaults()}
}

func (s *participantService) Register(ctx context.Context, tournamentID, participantID string) (*models.Tournament, error) {
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, fmt.Errorf("%w: participant id is required", ErrInvalidTournamentInput)
	}

	t, err := s.mutate(ctx, "participant.register", tournamentID, func(t *models.Tournament, now time.Time) error {
		return registerParticipant(t, participantID, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "Participant registered",
		slog.String("tournament_id", t.ID),
		slog.String("participant_id", participantID),
		slog.Int("roster_size", len(t.Participants)))

	event := s.newEvent(t, models.EventParticipantRegistered)
	event.ParticipantID = participantID
	s.publish(ctx, event)
	return t, nil
}

func (s *participantService) Unregister(ctx context.Context, tournamentID, participantID string) error {
	t, err := s.mutate(ctx, "participant.unregister", tournamentID, func(t *models.Tournament, _ time.Time) error {
		return unregisterParticipant(t, participantID)
	})
	if err != nil {
		return err
	}

	event := s.newEvent(t, models.EventParticipantLeft)
	event.ParticipantID = participantID
	s.publish(ctx, event)
	return nil
}

func registerParticipant(t *models.Tournament, participantID string, now time.Time) error {
	if t.Status != models.StatusRegistration || !t.Schedule.RegistrationOpenAt(now) {
		return fmt.Errorf("%w: tournament %s is %s", ErrRegistrationClosed, t.ID, t.Status)
	}
	if t.ParticipantIndex(participantID) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, participantID)
	}
	if len(t.Participants) >= t.MaxParticipants {
		return fmt.Errorf("%w: %d of %d places taken", ErrTournamentFull, len(t.Participants), t.MaxParticipants)
	}

	t.Participants = append(t.Participants, models.Participant{
		ParticipantID: participantID,
		RegisteredAt:  now,
		Seed:          len(t.Participants) + 1,
		Status:        models.ParticipantRegistered,
	})
	t.Statistics.TotalParticipants = len(t.Participants)
	t.Leaderboard = RecomputeLeaderboard(t.Participants)
	return nil
}

// unregisterParticipant removes the participant and renumbers the remaining
// seeds 1..n in registration order.
func unregisterParticipant(t *models.Tournament, participantID string) error {
	if t.Status != models.StatusRegistration {
		return fmt.Errorf("%w: cannot unregister while tournament is %s", ErrInvalidState, t.Status)
	}
	idx := t.ParticipantIndex(participantID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotRegistered, participantID)
	}

	t.Participants = append(t.Participants[:idx], t.Participants[idx+1:]...)
	for i := range t.Participants {
		t.Participants[i].Seed = i + 1
	}
	t.Statistics.TotalParticipants = len(t.Participants)
	t.Leaderboard = RecomputeLeaderboard(t.Participants)
	return nil
}
