package reservation

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

type CancelReservationOutput struct {
	Reservation *models.Reservation
	Outcome     domain.CancelOutcome
}

type CancelReservation struct {
	repo  domain.Repository
	clock clock.Clock
	cache SlotCache
	audit *audit.Dispatcher
}

func NewCancelReservation(
	repo domain.Repository,
	clk clock.Clock,
	cache SlotCache,
	audit *audit.Dispatcher,
) *CancelReservation {
	return &CancelReservation{
		repo:  repo,
		clock: clk,
		cache: orNoCache(cache),
		audit: audit,
	}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	actor domain.Actor,
	reservationID uint,
) (*CancelReservationOutput, error) {

	if !actor.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	var out CancelReservationOutput

	err := uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		r, err := tx.GetReservationForUpdate(ctx, reservationID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}

		// quem não enxerga a reserva recebe 404
		if !domain.MayView(actor, r) {
			return domain.ErrReservationNotFound
		}
		if !domain.MayCancel(actor, r) {
			return domain.ErrForbidden
		}

		var payment *models.Payment
		if r.Payment != nil {
			payment, err = tx.GetPaymentForUpdate(ctx, r.Payment.ID)
			if err != nil {
				return err
			}
		}

		now := uc.clock.Now()
		if err := domain.Cancel(r, &r.Location, now); err != nil {
			return err
		}
		r.UpdatedAt = now

		outcome := domain.EvaluateRefund(r, &r.Location, payment, now)

		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		if outcome.Refunded() {
			if err := tx.UpdatePayment(ctx, payment); err != nil {
				return err
			}
		}

		r.Payment = payment
		out = CancelReservationOutput{Reservation: r, Outcome: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r := out.Reservation
	uc.cache.Invalidate(ctx, r.LocationID, r.Date)

	uc.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(r.LocationID),
		UserID:     audit.UintPtr(actor.UserID),
		Action:     "reservation_cancelled",
		Entity:     "reservation",
		EntityID:   audit.UintPtr(r.ID),
		Metadata: map[string]any{
			"refunded": out.Outcome.Refunded(),
		},
	})

	return &out, nil
}
