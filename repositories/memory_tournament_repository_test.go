package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

var base = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newTournament(id string, status models.TournamentStatus, startOffset time.Duration) *models.Tournament {
	return &models.Tournament{
		ID:          id,
		Name:        "Cup " + id,
		Status:      status,
		Format:      models.FormatSingleElimination,
		OrganizerID: "org-1",
		Schedule: models.Schedule{
			RegistrationStart: base.Add(startOffset - 72*time.Hour),
			RegistrationEnd:   base.Add(startOffset - 24*time.Hour),
			TournamentStart:   base.Add(startOffset),
			TournamentEnd:     base.Add(startOffset + 24*time.Hour),
		},
		MaxParticipants: 8,
		CreatedAt:       base,
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()

	orig := newTournament("t1", models.StatusUpcoming, 0)
	if err := repo.Create(ctx, orig); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, orig); !errors.Is(err, ErrTournamentConflict) {
		t.Fatalf("expected ErrTournamentConflict, got %v", err)
	}

	orig.Name = "mutated after create"
	got, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Cup t1" {
		t.Fatalf("store shares memory with caller, name %q", got.Name)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestMemoryUpdateIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()
	if err := repo.Create(ctx, newTournament("t1", models.StatusRegistration, 0)); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "t1", func(tr *models.Tournament) error {
		tr.Participants = append(tr.Participants, models.Participant{ParticipantID: "p1", Seed: 1})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "t1")
	if len(got.Participants) != 0 || got.Version != 0 {
		t.Fatalf("failed update leaked: %d participants, version %d", len(got.Participants), got.Version)
	}

	updated, err := repo.Update(ctx, "t1", func(tr *models.Tournament) error {
		tr.Participants = append(tr.Participants, models.Participant{ParticipantID: "p1", Seed: 1})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 1 || len(updated.Participants) != 1 {
		t.Fatalf("unexpected result: version %d, %d participants", updated.Version, len(updated.Participants))
	}

	if _, err := repo.Update(ctx, "missing", func(*models.Tournament) error { return nil }); !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestMemoryUpdateSerializesPerTournament(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()
	if err := repo.Create(ctx, newTournament("t1", models.StatusRegistration, 0)); err != nil {
		t.Fatal(err)
	}

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Update(ctx, "t1", func(tr *models.Tournament) error {
				tr.Participants = append(tr.Participants, models.Participant{
					ParticipantID: fmt.Sprintf("p%d", i),
					Seed:          len(tr.Participants) + 1,
				})
				return nil
			})
			if err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := repo.GetByID(ctx, "t1")
	if len(got.Participants) != writers || got.Version != writers {
		t.Fatalf("expected %d participants and version %d, got %d and %d", writers, writers, len(got.Participants), got.Version)
	}
	for i, p := range got.Participants {
		if p.Seed != i+1 {
			t.Fatalf("lost update: participant %d has seed %d", i, p.Seed)
		}
	}
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()

	reg := newTournament("reg", models.StatusRegistration, 48*time.Hour)
	reg.Schedule.RegistrationStart = base.Add(-time.Hour)
	reg.Schedule.RegistrationEnd = base.Add(time.Hour)
	seed := []*models.Tournament{
		newTournament("past", models.StatusCompleted, -48*time.Hour),
		newTournament("soon", models.StatusUpcoming, 24*time.Hour),
		reg,
	}
	other := newTournament("other-org", models.StatusUpcoming, 72*time.Hour)
	other.OrganizerID = "org-2"
	seed = append(seed, other)
	for _, tr := range seed {
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatal(err)
		}
	}

	status := models.StatusUpcoming
	org := "org-2"
	now := base

	tests := []struct {
		name   string
		filter ListTournamentsFilter
		want   []string
	}{
		{"all newest start first", ListTournamentsFilter{}, []string{"other-org", "reg", "soon", "past"}},
		{"by status", ListTournamentsFilter{Status: &status}, []string{"other-org", "soon"}},
		{"by organizer", ListTournamentsFilter{OrganizerID: &org}, []string{"other-org"}},
		{"upcoming only", ListTournamentsFilter{StartsAfter: &now}, []string{"other-org", "reg", "soon"}},
		{"registration open", ListTournamentsFilter{RegistrationOpenAt: &now}, []string{"reg"}},
		{"limit and offset", ListTournamentsFilter{Limit: 2, Offset: 1}, []string{"reg", "soon"}},
		{"offset past end", ListTournamentsFilter{Offset: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tournaments, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Fatalf("position %d: expected %s, got %s", i, tt.want[i], got[i].ID)
				}
			}
		})
	}
}

func TestMemoryListDueForTransition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTournamentRepository()

	opening := newTournament("opening", models.StatusUpcoming, 48*time.Hour) // registration started 24h ago
	starting := newTournament("starting", models.StatusRegistration, -time.Hour)
	notYet := newTournament("not-yet", models.StatusUpcoming, 96*time.Hour)
	active := newTournament("active", models.StatusActive, -time.Hour)
	for _, tr := range []*models.Tournament{opening, starting, notYet, active} {
		if err := repo.Create(ctx, tr); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := repo.ListDueForTransition(ctx, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "starting" || ids[1] != "opening" {
		t.Fatalf("expected [starting opening], got %v", ids)
	}
}
