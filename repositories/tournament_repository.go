package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentConflict = errors.New("tournament with this id already exists")
	ErrVersionConflict    = errors.New("tournament was modified concurrently")
)

type ListTournamentsFilter struct {
	Status      *models.TournamentStatus
	Format      *models.Format
	OrganizerID *string
	// StartsAfter keeps tournaments whose start lies strictly after the instant.
	StartsAfter *time.Time
	// RegistrationOpenAt keeps tournaments in registration whose window contains the instant.
	RegistrationOpenAt *time.Time
	Limit              int
	Offset             int
}

// MutateFunc changes a private copy of the aggregate. Returning an error
// discards the copy and nothing is written.
type MutateFunc func(t *models.Tournament) error

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// Update runs fn against the current aggregate under a per-tournament
	// lock, bumps Version and stores the result atomically.
	Update(ctx context.Context, id string, fn MutateFunc) (*models.Tournament, error)
	ListDueForTransition(ctx context.Context, now time.Time) ([]string, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO tournaments (
			id, name, slug, status, format, organizer_id,
			registration_start, registration_end, tournament_start, tournament_end,
			document, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Slug, t.Status, t.Format, t.OrganizerID,
		t.Schedule.RegistrationStart, t.Schedule.RegistrationEnd, t.Schedule.TournamentStart, t.Schedule.TournamentEnd,
		doc, t.Version, t.CreatedAt, t.UpdatedAt,
	)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	return r.load(ctx, r.db, id, false)
}

func (r *postgresTournamentRepository) load(ctx context.Context, exec SQLExecutor, id string, forUpdate bool) (*models.Tournament, error) {
	query := `SELECT document, version FROM tournaments WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var (
		doc     []byte
		version int
	)
	err := exec.QueryRowContext(ctx, query, id).Scan(&doc, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}

	t := &models.Tournament{}
	if err := json.Unmarshal(doc, t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament %s: %w", id, err)
	}
	t.Version = version
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `SELECT document, version FROM tournaments WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Format != nil {
		query += fmt.Sprintf(" AND format = $%d", argID)
		args = append(args, *filter.Format)
		argID++
	}
	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.StartsAfter != nil {
		query += fmt.Sprintf(" AND tournament_start > $%d", argID)
		args = append(args, *filter.StartsAfter)
		argID++
	}
	if filter.RegistrationOpenAt != nil {
		query += fmt.Sprintf(" AND status = $%d AND registration_start <= $%d AND registration_end > $%d", argID, argID+1, argID+1)
		args = append(args, models.StatusRegistration, *filter.RegistrationOpenAt)
		argID += 2
	}

	query += " ORDER BY tournament_start DESC, created_at DESC, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var (
			doc     []byte
			version int
		)
		if scanErr := rows.Scan(&doc, &version); scanErr != nil {
			return nil, scanErr
		}
		var t models.Tournament
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("failed to decode tournament row: %w", err)
		}
		t.Version = version
		tournaments = append(tournaments, t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, id string, fn MutateFunc) (result *models.Tournament, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	t, err := r.load(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}
	prevVersion := t.Version

	if err = fn(t); err != nil {
		return nil, err
	}
	t.Version = prevVersion + 1

	doc, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s: %w", id, err)
	}

	query := `
		UPDATE tournaments SET
			name = $1,
			slug = $2,
			status = $3,
			format = $4,
			organizer_id = $5,
			registration_start = $6,
			registration_end = $7,
			tournament_start = $8,
			tournament_end = $9,
			document = $10,
			version = $11,
			updated_at = $12
		WHERE id = $13 AND version = $14`

	res, err := tx.ExecContext(ctx, query,
		t.Name, t.Slug, t.Status, t.Format, t.OrganizerID,
		t.Schedule.RegistrationStart, t.Schedule.RegistrationEnd, t.Schedule.TournamentStart, t.Schedule.TournamentEnd,
		doc, t.Version, t.UpdatedAt,
		id, prevVersion,
	)
	if err != nil {
		return nil, r.handleTournamentError(err)
	}
	if err = checkAffectedRows(res, ErrVersionConflict); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListDueForTransition(ctx context.Context, now time.Time) ([]string, error) {
	query := `
		SELECT id FROM tournaments
		WHERE (status = $1 AND registration_start <= $3)
		   OR (status = $2 AND tournament_start <= $3)
		ORDER BY tournament_start, id`

	rows, err := r.db.QueryContext(ctx, query, models.StatusUpcoming, models.StatusRegistration, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for auto status update: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament id for auto status update: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration for auto status update: %w", err)
	}
	return ids, nil
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrTournamentConflict
		case "40001", "40P01":
			return ErrVersionConflict
		}
	}
	return err
}
