package dispatch

import (
	"context"
	"errors"

	"github.com/example/motogo/internal/models"
)

// Notifier delivers ride status changes to riders.
type Notifier interface {
	Notify(ctx context.Context, s models.RideStatus) error
}

// Fanout notifies every sink and joins their errors.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, s models.RideStatus) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
