package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type SingleEliminationGenerator struct {
	seeder Seeder
}

func NewSingleEliminationGenerator(seeder Seeder) BracketGenerator {
	if seeder == nil {
		seeder = RegistrationOrderSeeder{}
	}
	return &SingleEliminationGenerator{seeder: seeder}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// RoundSizes returns the match count of every round for n participants:
// ceil(n/2), then ceil(prev/2) until the single final.
func RoundSizes(n int) []int {
	if n < 2 {
		return nil
	}
	sizes := []int{(n + 1) / 2}
	for last := sizes[0]; last > 1; last = sizes[len(sizes)-1] {
		sizes = append(sizes, (last+1)/2)
	}
	return sizes
}

// GenerateBracket pairs the seeded roster two at a time into round 1 and
// pre-allocates empty shells for every later round. An odd roster gives the
// last participant a bye, which is resolved and advanced immediately.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*GeneratedBracket, error) {
	n := len(params.Participants)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrInsufficientParticipants, n)
	}

	seeded := g.seeder.Order(params.Participants)
	if len(seeded) != n {
		return nil, fmt.Errorf("seeder returned %d participants, expected %d", len(seeded), n)
	}

	sizes := RoundSizes(n)
	bracket := models.Bracket{Rounds: make([]models.Round, len(sizes))}
	for r, size := range sizes {
		matches := make([]models.Match, size)
		for m := range matches {
			matches[m] = models.Match{
				MatchID: models.MatchID(r, m),
				Status:  models.MatchPending,
			}
		}
		bracket.Rounds[r] = models.Round{RoundNumber: r + 1, Matches: matches}
	}

	result := &GeneratedBracket{}
	for m := 0; m < sizes[0]; m++ {
		match := &bracket.Rounds[0].Matches[m]
		p1 := seeded[2*m].ParticipantID
		match.Player1 = &p1

		if 2*m+1 < n {
			p2 := seeded[2*m+1].ParticipantID
			match.Player2 = &p2
			continue
		}

		byes, err := ResolveBye(&bracket, 0, m, params.Now)
		if err != nil {
			return nil, fmt.Errorf("resolving bye for %s: %w", match.MatchID, err)
		}
		result.ByeMatches = append(result.ByeMatches, byes...)
	}

	result.Bracket = bracket
	return result, nil
}
