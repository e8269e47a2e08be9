package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

const (
	maxTournamentNameLength = 255
	defaultTickConcurrency  = 8
)

// errNoChange aborts a tick write that has nothing to do.
var errNoChange = errors.New("no change")

type CreateTournamentInput struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Format          models.Format   `json:"format"`
	MaxParticipants int             `json:"max_participants"`
	Schedule        models.Schedule `json:"schedule"`
}

type ListTournamentsInput struct {
	Status               *models.TournamentStatus
	Format               *models.Format
	OrganizerID          *string
	UpcomingOnly         bool
	RegistrationOpenOnly bool
	Limit                int
	Offset               int
}

// TickReport summarises one scheduler pass.
type TickReport struct {
	RegistrationOpened int
	Started            int
	Deferred           int
	Failed             int
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput, organizerID string) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	StartTournament(ctx context.Context, id, callerID string) (*models.Tournament, error)
	CancelTournament(ctx context.Context, id, callerID string) error
	GetLeaderboard(ctx context.Context, id string) ([]models.StandingEntry, error)
	Tick(ctx context.Context) (TickReport, error)
}

type tournamentService struct {
	Deps
	bracketService  BracketService
	tickConcurrency int
}

func NewTournamentService(deps Deps, bracketService BracketService) TournamentService {
	return &tournamentService{
		Deps:            deps.withDefaults(),
		bracketService:  bracketService,
		tickConcurrency: defaultTickConcurrency,
	}
}

func validateCreateInput(input CreateTournamentInput, organizerID string) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTournamentInput)
	}
	if len(name) > maxTournamentNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidTournamentInput, maxTournamentNameLength)
	}
	if strings.TrimSpace(organizerID) == "" {
		return fmt.Errorf("%w: organizer is required", ErrInvalidTournamentInput)
	}
	if !input.Format.Known() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidTournamentInput, input.Format)
	}
	if !input.Format.Implemented() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, input.Format)
	}
	if input.MaxParticipants < 2 {
		return fmt.Errorf("%w: max participants must be at least 2", ErrInvalidTournamentInput)
	}
	return validateSchedule(input.Schedule)
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput, organizerID string) (*models.Tournament, error) {
	if err := validateCreateInput(input, organizerID); err != nil {
		return nil, err
	}

	now := s.Clock()
	name := strings.TrimSpace(input.Name)
	t := &models.Tournament{
		ID:              uuid.NewString(),
		Name:            name,
		Slug:            slug.Make(name),
		Description:     input.Description,
		Status:          models.StatusUpcoming,
		Format:          input.Format,
		MaxParticipants: input.MaxParticipants,
		Schedule:        input.Schedule,
		OrganizerID:     organizerID,
		Participants:    []models.Participant{},
		Leaderboard:     []models.StandingEntry{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.Logger.InfoContext(ctx, "Tournament created",
		slog.String("tournament_id", t.ID),
		slog.String("organizer_id", organizerID),
		slog.String("format", string(t.Format)))
	s.publish(ctx, s.newEvent(t, models.EventTournamentCreated))
	return t, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id string) (*models.Tournament, error) {
	return s.load(ctx, id)
}

func (s *tournamentService) ListTournaments(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	filter := repositories.ListTournamentsFilter{
		Status:      input.Status,
		Format:      input.Format,
		OrganizerID: input.OrganizerID,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}
	if input.UpcomingOnly || input.RegistrationOpenOnly {
		now := s.Clock()
		if input.UpcomingOnly {
			filter.StartsAfter = &now
		}
		if input.RegistrationOpenOnly {
			filter.RegistrationOpenAt = &now
		}
	}
	tournaments, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

// startTournament is the registration -> active transition. The bracket is
// built exactly once here.
func (s *tournamentService) startTournament(ctx context.Context, t *models.Tournament, now time.Time) error {
	if t.Status != models.StatusRegistration {
		return fmt.Errorf("%w: cannot start a tournament that is %s", ErrInvalidState, t.Status)
	}
	if len(t.Participants) < 2 {
		return fmt.Errorf("%w: found %d", ErrInsufficientParticipants, len(t.Participants))
	}
	for i := range t.Participants {
		t.Participants[i].Status = models.ParticipantActive
	}
	if _, err := s.bracketService.BuildBracket(ctx, t, now); err != nil {
		return err
	}
	if err := transition(t, models.StatusActive); err != nil {
		return err
	}
	if now.Before(t.Schedule.TournamentStart) {
		t.Schedule.TournamentStart = now
	}
	t.Leaderboard = RecomputeLeaderboard(t.Participants)
	return nil
}

func (s *tournamentService) StartTournament(ctx context.Context, id, callerID string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, "tournament.start", id, func(t *models.Tournament, now time.Time) error {
		if t.OrganizerID != callerID {
			return ErrNotOrganizer
		}
		return s.startTournament(ctx, t, now)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "Tournament started",
		slog.String("tournament_id", t.ID),
		slog.Int("participants", len(t.Participants)))
	s.publish(ctx, s.newEvent(t, models.EventTournamentStarted))
	return t, nil
}

func (s *tournamentService) CancelTournament(ctx context.Context, id, callerID string) error {
	t, err := s.mutate(ctx, "tournament.cancel", id, func(t *models.Tournament, _ time.Time) error {
		if t.OrganizerID != callerID {
			return ErrNotOrganizer
		}
		if t.Status.IsTerminal() {
			return fmt.Errorf("%w: tournament is already %s", ErrInvalidState, t.Status)
		}
		return transition(t, models.StatusCancelled)
	})
	if err != nil {
		return err
	}

	s.Logger.InfoContext(ctx, "Tournament cancelled", slog.String("tournament_id", t.ID))
	s.publish(ctx, s.newEvent(t, models.EventTournamentCancelled))
	return nil
}

func (s *tournamentService) GetLeaderboard(ctx context.Context, id string) ([]models.StandingEntry, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.Leaderboard, nil
}

// Tick applies the time-driven transitions that are due. Calling it again with
// nothing due changes nothing.
func (s *tournamentService) Tick(ctx context.Context) (TickReport, error) {
	now := s.Clock()
	ids, err := s.Repo.ListDueForTransition(ctx, now)
	if err != nil {
		return TickReport{}, fmt.Errorf("failed to list tournaments due for transition: %w", err)
	}

	var (
		mu     sync.Mutex
		report TickReport
		errs   []error
	)
	g := new(errgroup.Group)
	g.SetLimit(s.tickConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			opened, started, deferred, err := s.tickOne(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			if opened {
				report.RegistrationOpened++
			}
			if started {
				report.Started++
			}
			if deferred {
				report.Deferred++
			}
			if err != nil {
				report.Failed++
				errs = append(errs, fmt.Errorf("tournament %s: %w", id, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return report, errors.Join(errs...)
}

func (s *tournamentService) tickOne(ctx context.Context, id string) (opened, started, deferred bool, err error) {
	t, err := s.mutate(ctx, "tournament.tick", id, func(t *models.Tournament, now time.Time) error {
		opened, started, deferred = false, false, false
		if t.Status == models.StatusUpcoming && !now.Before(t.Schedule.RegistrationStart) {
			if err := transition(t, models.StatusRegistration); err != nil {
				return err
			}
			opened = true
		}
		if t.Status == models.StatusRegistration && !now.Before(t.Schedule.TournamentStart) {
			if len(t.Participants) >= 2 {
				if err := s.startTournament(ctx, t, now); err != nil {
					return err
				}
				started = true
			} else {
				deferred = true
			}
		}
		if !opened && !started {
			return errNoChange
		}
		return nil
	})
	if deferred {
		s.Logger.WarnContext(ctx, "Tournament start is due but the roster is too small",
			slog.String("tournament_id", id))
	}
	if errors.Is(err, errNoChange) {
		return false, false, deferred, nil
	}
	if err != nil {
		s.Logger.ErrorContext(ctx, "Scheduled transition failed", slog.String("tournament_id", id), slog.Any("error", err))
		return false, false, false, err
	}

	var events []models.TournamentEvent
	if opened {
		events = append(events, s.newEvent(t, models.EventRegistrationOpened))
	}
	if started {
		events = append(events, s.newEvent(t, models.EventTournamentStarted))
	}
	s.publish(ctx, events...)
	return opened, started, deferred, nil
}
