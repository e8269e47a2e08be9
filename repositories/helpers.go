package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// matches applies filter to t in memory. The Postgres store pushes the same
// predicates into SQL.
func (f ListTournamentsFilter) matches(t *models.Tournament) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Format != nil && t.Format != *f.Format {
		return false
	}
	if f.OrganizerID != nil && t.OrganizerID != *f.OrganizerID {
		return false
	}
	if f.StartsAfter != nil && !t.Schedule.TournamentStart.After(*f.StartsAfter) {
		return false
	}
	if f.RegistrationOpenAt != nil &&
		(t.Status != models.StatusRegistration || !t.Schedule.RegistrationOpenAt(*f.RegistrationOpenAt)) {
		return false
	}
	return true
}

// dueForTransition reports whether Tick has something to do for t at now.
func dueForTransition(t *models.Tournament, now time.Time) bool {
	switch t.Status {
	case models.StatusUpcoming:
		return !now.Before(t.Schedule.RegistrationStart)
	case models.StatusRegistration:
		return !now.Before(t.Schedule.TournamentStart)
	}
	return false
}

// sortTournaments orders by tournament start descending, then creation time
// descending, then id.
func sortTournaments(ts []models.Tournament) {
	slices.SortStableFunc(ts, func(a, b models.Tournament) int {
		if c := b.Schedule.TournamentStart.Compare(a.Schedule.TournamentStart); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
