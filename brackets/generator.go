package brackets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

var (
	ErrInsufficientParticipants = errors.New("not enough participants to generate a bracket (minimum 2)")
	ErrUnsupportedFormat        = errors.New("bracket format is not supported")
	ErrMatchNotReady            = errors.New("match does not have both players assigned yet")
	ErrInvalidResult            = errors.New("invalid game results")
	ErrUndecidableMatch         = errors.New("match result is undecidable and requires organizer intervention")
	errSlotConflict             = errors.New("advancement slot conflict")
)

type GenerateBracketParams struct {
	Tournament   *models.Tournament
	Participants []models.Participant
	Now          time.Time
}

// GeneratedBracket is the materialised tree plus the bye matches resolved while
// building it.
type GeneratedBracket struct {
	Bracket    models.Bracket
	ByeMatches []string
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*GeneratedBracket, error)

	GetName() string
}

// NewGenerator returns the generator for format. Declared but unimplemented
// formats fail with ErrUnsupportedFormat.
func NewGenerator(format models.Format, seeder Seeder) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(seeder), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
