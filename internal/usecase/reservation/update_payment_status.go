package reservation

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// UpdatePaymentStatus applies a status reported by the payment capture
// collaborator.
type UpdatePaymentStatus struct {
	repo  domain.Repository
	clock clock.Clock
	audit *audit.Dispatcher
}

func NewUpdatePaymentStatus(
	repo domain.Repository,
	clk clock.Clock,
	audit *audit.Dispatcher,
) *UpdatePaymentStatus {
	return &UpdatePaymentStatus{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

func (uc *UpdatePaymentStatus) Execute(
	ctx context.Context,
	paymentID uint,
	status string,
) (*models.Reservation, error) {

	target, err := domain.ParsePaymentStatus(status)
	if err != nil || status == "" {
		return nil, domain.ErrInvalidPaymentStatus
	}

	var updated *models.Reservation
	var previous string

	err = uc.repo.WithinTransaction(ctx, func(tx domain.Repository) error {

		// mesma ordem de locks do cancelamento: reserva, depois pagamento
		ref, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}

		r, err := tx.GetReservationForUpdate(ctx, ref.ReservationID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrReservationNotFound
			}
			return err
		}

		p, err := tx.GetPaymentForUpdate(ctx, paymentID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}

		previous = p.Status
		reservationStatus := r.Status

		now := uc.clock.Now()
		if err := domain.ApplyPaymentStatus(r, p, target, now); err != nil {
			return err
		}

		if p.Status != previous {
			if err := tx.UpdatePayment(ctx, p); err != nil {
				return err
			}
		}
		if r.Status != reservationStatus {
			r.UpdatedAt = now
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return err
			}
		}

		r.Payment = p
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != updated.Payment.Status {
		uc.audit.Dispatch(audit.Event{
			LocationID: audit.UintPtr(updated.LocationID),
			Action:     "payment_status_changed",
			Entity:     "payment",
			EntityID:   audit.UintPtr(updated.Payment.ID),
			Metadata: map[string]any{
				"from":               previous,
				"to":                 updated.Payment.Status,
				"reservation_status": updated.Status,
			},
		})
	}

	return updated, nil
}
