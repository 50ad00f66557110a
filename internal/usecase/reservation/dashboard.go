package reservation

import (
	"context"

	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/timezone"
)

type OwnerDashboard struct {
	repo  domain.Repository
	clock clock.Clock
}

func NewOwnerDashboard(repo domain.Repository, clk clock.Clock) *OwnerDashboard {
	return &OwnerDashboard{repo: repo, clock: clk}
}

// Execute counts upcoming confirmed reservations from today, in the default
// timezone, onwards.
func (uc *OwnerDashboard) Execute(
	ctx context.Context,
	actor domain.Actor,
) (*domain.Dashboard, error) {

	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !actor.IsOwner() {
		return nil, domain.ErrForbidden
	}

	today := models.DateOf(timezone.NowIn(uc.clock, timezone.DefaultTimezone))

	d, err := uc.repo.OwnerDashboard(ctx, actor.UserID, today)
	if err != nil {
		return nil, err
	}
	if d.ReservationsPerLocation == nil {
		d.ReservationsPerLocation = []domain.LocationCount{}
	}
	return d, nil
}
