package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func validateSchedule(s models.Schedule) error {
	if s.RegistrationStart.IsZero() || s.RegistrationEnd.IsZero() || s.TournamentStart.IsZero() || s.TournamentEnd.IsZero() {
		return fmt.Errorf("%w: all four dates are required", ErrInvalidSchedule)
	}
	if !s.RegistrationStart.Before(s.RegistrationEnd) {
		return fmt.Errorf("%w: registration start (%s) must be before registration end (%s)", ErrInvalidSchedule,
			s.RegistrationStart.Format(time.RFC3339), s.RegistrationEnd.Format(time.RFC3339))
	}
	if !s.RegistrationEnd.Before(s.TournamentStart) {
		return fmt.Errorf("%w: registration end (%s) must be before tournament start (%s)", ErrInvalidSchedule,
			s.RegistrationEnd.Format(time.RFC3339), s.TournamentStart.Format(time.RFC3339))
	}
	if s.TournamentEnd.Before(s.TournamentStart) {
		return fmt.Errorf("%w: tournament end (%s) cannot be before tournament start (%s)", ErrInvalidSchedule,
			s.TournamentEnd.Format(time.RFC3339), s.TournamentStart.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.StatusUpcoming:     {models.StatusRegistration, models.StatusCancelled},
		models.StatusRegistration: {models.StatusActive, models.StatusCancelled},
		models.StatusActive:       {models.StatusCompleted, models.StatusCancelled},
		models.StatusCompleted:    {},
		models.StatusCancelled:    {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// transition is the single place a tournament's status changes.
func transition(t *models.Tournament, next models.TournamentStatus) error {
	if t.Status == next || !isValidStatusTransition(t.Status, next) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, t.Status, next)
	}
	t.Status = next
	return nil
}

// handleRepositoryError translates store errors into service errors.
func handleRepositoryError(err error, tournamentID string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: %s", ErrTournamentNotFound, tournamentID)
	case errors.Is(err, repositories.ErrVersionConflict):
		return fmt.Errorf("%w: %s", ErrConcurrentModification, tournamentID)
	}
	return err
}
