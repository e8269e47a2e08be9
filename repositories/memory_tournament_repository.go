package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

type memoryEntry struct {
	mu sync.Mutex
	t  *models.Tournament
}

// memoryTournamentRepository keeps aggregates in process. Each tournament has
// its own lock so commands on different tournaments never wait on each other.
type memoryTournamentRepository struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

func NewMemoryTournamentRepository() TournamentRepository {
	return &memoryTournamentRepository{entries: make(map[string]*memoryEntry)}
}

func (r *memoryTournamentRepository) entry(id string) (*memoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

func (r *memoryTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[t.ID]; exists {
		return ErrTournamentConflict
	}
	r.entries[t.ID] = &memoryEntry{t: t.Clone()}
	return nil
}

func (r *memoryTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, ErrTournamentNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.t.Clone(), nil
}

func (r *memoryTournamentRepository) snapshot() []*memoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]*memoryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	return entries
}

func (r *memoryTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments := make([]models.Tournament, 0)
	for _, e := range r.snapshot() {
		e.mu.Lock()
		if filter.matches(e.t) {
			tournaments = append(tournaments, *e.t.Clone())
		}
		e.mu.Unlock()
	}
	sortTournaments(tournaments)
	return paginate(tournaments, filter.Limit, filter.Offset), nil
}

func (r *memoryTournamentRepository) Update(ctx context.Context, id string, fn MutateFunc) (*models.Tournament, error) {
	e, ok := r.entry(id)
	if !ok {
		return nil, ErrTournamentNotFound
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.t.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.Version = e.t.Version + 1
	e.t = working
	return working.Clone(), nil
}

func (r *memoryTournamentRepository) ListDueForTransition(ctx context.Context, now time.Time) ([]string, error) {
	type due struct {
		id    string
		start time.Time
	}
	var found []due
	for _, e := range r.snapshot() {
		e.mu.Lock()
		if dueForTransition(e.t, now) {
			found = append(found, due{id: e.t.ID, start: e.t.Schedule.TournamentStart})
		}
		e.mu.Unlock()
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].start.Equal(found[j].start) {
			return found[i].start.Before(found[j].start)
		}
		return found[i].id < found[j].id
	})

	ids := make([]string, len(found))
	for i, d := range found {
		ids[i] = d.id
	}
	return ids, nil
}
