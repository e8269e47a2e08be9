package brackets

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	SeedingRegistration = "registration"
	SeedingRandom       = "random"
)

// Seeder assigns the initial pairing order. Implementations must not modify
// the input slice.
type Seeder interface {
	Order(participants []models.Participant) []models.Participant
}

// SeederFunc adapts a plain function, e.g. a rating lookup, to Seeder.
type SeederFunc func(participants []models.Participant) []models.Participant

func (f SeederFunc) Order(participants []models.Participant) []models.Participant {
	return f(participants)
}

// RegistrationOrderSeeder pairs participants by ascending seed.
type RegistrationOrderSeeder struct{}

func (RegistrationOrderSeeder) Order(participants []models.Participant) []models.Participant {
	ordered := make([]models.Participant, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Seed < ordered[j].Seed
	})
	return ordered
}

// RandomSeeder shuffles the registration order with an injected source, so a
// fixed source gives a reproducible bracket.
type RandomSeeder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSeeder(src rand.Source) *RandomSeeder {
	return &RandomSeeder{rng: rand.New(src)}
}

func (s *RandomSeeder) Order(participants []models.Participant) []models.Participant {
	ordered := RegistrationOrderSeeder{}.Order(participants)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(ordered), func(i, j int) {
		ordered[i], ordered[j] = ordered[j], ordered[i]
	})
	return ordered
}

// NewSeeder builds the seeder for a configured policy name.
func NewSeeder(policy string, seed uint64) (Seeder, error) {
	switch policy {
	case "", SeedingRegistration:
		return RegistrationOrderSeeder{}, nil
	case SeedingRandom:
		return NewRandomSeeder(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), nil
	default:
		return nil, fmt.Errorf("unknown seeding policy %q", policy)
	}
}
