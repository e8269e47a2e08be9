package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/repositories"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Dosada05/tournament-engine/services"

// Notifier receives a fact after every successful write. Delivery failures
// are logged by the caller and never undo the write.
type Notifier interface {
	Publish(ctx context.Context, event models.TournamentEvent) error
}

type NotifierFunc func(ctx context.Context, event models.TournamentEvent) error

func (f NotifierFunc) Publish(ctx context.Context, event models.TournamentEvent) error {
	return f(ctx, event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, models.TournamentEvent) error { return nil }

// Deps are shared by every service.
type Deps struct {
	Repo     repositories.TournamentRepository
	Notifier Notifier
	Clock    Clock
	Logger   *slog.Logger
	Tracer   trace.Tracer
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	return d
}

// mutate runs one command as a single atomic write of the aggregate. fn sees
// a private copy; UpdatedAt is stamped only when fn succeeds.
func (d Deps) mutate(ctx context.Context, op, tournamentID string, fn func(t *models.Tournament, now time.Time) error) (*models.Tournament, error) {
	ctx, span := d.Tracer.Start(ctx, op, trace.WithAttributes(attribute.String("tournament.id", tournamentID)))
	defer span.End()

	now := d.Clock()
	t, err := d.Repo.Update(ctx, tournamentID, func(t *models.Tournament) error {
		if err := fn(t, now); err != nil {
			return err
		}
		t.UpdatedAt = now
		return nil
	})
	if errors.Is(err, errNoChange) {
		span.SetAttributes(attribute.Bool("tournament.changed", false))
		return nil, err
	}
	if err != nil {
		err = handleRepositoryError(err, tournamentID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("tournament.status", string(t.Status)), attribute.Int("tournament.version", t.Version))
	return t, nil
}

func (d Deps) load(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	t, err := d.Repo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, tournamentID)
	}
	return t, nil
}

func (d Deps) newEvent(t *models.Tournament, typ models.EventType) models.TournamentEvent {
	return models.TournamentEvent{
		Type:         typ,
		TournamentID: t.ID,
		Status:       t.Status,
		Version:      t.Version,
		OccurredAt:   t.UpdatedAt,
	}
}

func (d Deps) publish(ctx context.Context, events ...models.TournamentEvent) {
	for _, event := range events {
		if err := d.Notifier.Publish(ctx, event); err != nil {
			d.Logger.WarnContext(ctx, "Failed to publish tournament event",
				slog.String("event_type", string(event.Type)),
				slog.String("tournament_id", event.TournamentID),
				slog.Any("error", err))
		}
	}
}
