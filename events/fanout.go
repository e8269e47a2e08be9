package events

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
)

type Publisher interface {
	Publish(ctx context.Context, event models.TournamentEvent) error
}

// Fanout hands every event to all publishers, even after one fails, and
// returns the joined errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event models.TournamentEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
