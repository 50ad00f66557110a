package reservation

import (
	"time"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// ===============================
// State Machine
// ===============================

// CanCancel is false once cancelled, and otherwise true only while the start
// is strictly more than the location's cancellation lead time away.
func CanCancel(r *models.Reservation, loc *models.Location, now time.Time) bool {
	if Status(r.Status) == StatusCancelled {
		return false
	}
	deadline := StartsAt(loc, r.Date, r.StartTime).
		Add(-time.Duration(loc.CancellationHours) * time.Hour)
	return deadline.After(now)
}

// Cancel moves a pending or confirmed reservation to cancelled and stamps
// cancelled_at. A cancelled reservation is never touched again.
func Cancel(r *models.Reservation, loc *models.Location, now time.Time) error {
	if Status(r.Status) == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !CanCancel(r, loc, now) {
		return ErrCancellationDeadline
	}

	r.Status = string(StatusCancelled)
	if r.CancelledAt == nil {
		at := now
		r.CancelledAt = &at
	}
	return nil
}

// Confirm is driven by the payment reaching "pago".
func Confirm(r *models.Reservation) error {
	switch Status(r.Status) {
	case StatusPending:
		r.Status = string(StatusConfirmed)
		return nil
	case StatusConfirmed:
		return nil
	}
	return ErrReservationCancelled
}
