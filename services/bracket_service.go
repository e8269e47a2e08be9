package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
)

type BracketService interface {
	// BuildBracket materialises the bracket on t in place. It never writes;
	// the caller persists t as part of its own command.
	BuildBracket(ctx context.Context, t *models.Tournament, now time.Time) (*brackets.GeneratedBracket, error)
	GetBracket(ctx context.Context, tournamentID string) (*models.Bracket, error)
}

type bracketService struct {
	Deps
	seeder brackets.Seeder
}

func NewBracketService(deps Deps, seeder brackets.Seeder) BracketService {
	if seeder == nil {
		seeder = brackets.RegistrationOrderSeeder{}
	}
	return &bracketService{Deps: deps.withDefaults(), seeder: seeder}
}

func (s *bracketService) BuildBracket(ctx context.Context, t *models.Tournament, now time.Time) (*brackets.GeneratedBracket, error) {
	if t.Bracket.Built() {
		return nil, fmt.Errorf("%w: tournament %s", ErrBracketAlreadyBuilt, t.ID)
	}
	if len(t.Participants) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrInsufficientParticipants, len(t.Participants))
	}

	generator, err := brackets.NewGenerator(t.Format, s.seeder)
	if err != nil {
		return nil, err
	}

	generated, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament:   t,
		Participants: t.Participants,
		Now:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bracket for tournament %s: %w", generator.GetName(), t.ID, err)
	}

	t.Bracket = generated.Bracket
	total := 0
	for _, round := range t.Bracket.Rounds {
		total += len(round.Matches)
	}
	t.Statistics.TotalMatches = total
	t.Statistics.ByeMatches = len(generated.ByeMatches)
	t.Statistics.CompletedMatches = len(generated.ByeMatches)

	s.Logger.InfoContext(ctx, "Bracket generated",
		slog.String("tournament_id", t.ID),
		slog.String("generator", generator.GetName()),
		slog.Int("participants", len(t.Participants)),
		slog.Int("rounds", len(t.Bracket.Rounds)),
		slog.Int("byes", len(generated.ByeMatches)))
	return generated, nil
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID string) (*models.Bracket, error) {
	t, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return &t.Bracket, nil
}
