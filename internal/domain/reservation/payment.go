package reservation

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// RefundThreshold is the minimum lead time for a paid reservation to be
// refunded on cancellation. It does not depend on the location's own
// cancellation deadline.
const RefundThreshold = 24 * time.Hour

// MaxPaymentAmount is the largest amount the payments table stores
// (decimal(8,2)).
const MaxPaymentAmount = 999999.99

// PaymentAmount prices a reservation. Hour granularity multiplies by the
// difference of the start and end hours; minute granularity by the exact
// elapsed time. Result is rounded to cents.
func PaymentAmount(loc *models.Location, start, end models.TimeOfDay, g Granularity) float64 {
	var hours float64
	if g == GranularityMinute {
		hours = float64(end.Minutes()-start.Minutes()) / 60
	} else {
		hours = float64(end.Hour() - start.Hour())
	}
	return math.Round(loc.PricePerHour*hours*100) / 100
}

// MaxCharge is the most a single reservation at loc can cost: the hourly
// price times the longest admissible duration, which is bounded by both
// MaxDuration and the operating range.
func MaxCharge(loc *models.Location) float64 {
	span := (loc.OperatingHoursEnd.Minutes() - loc.OperatingHoursStart.Minutes() + 59) / 60
	hours := loc.MaxDuration
	if span < hours {
		hours = span
	}
	return math.Round(loc.PricePerHour*float64(hours)*100) / 100
}

// NewPayment builds the payment created together with a reservation.
// The amount must be positive and at most MaxPaymentAmount. Refunded is not
// a valid initial status.
func NewPayment(
	method PaymentMethod,
	status PaymentStatus,
	amount float64,
	now time.Time,
) (*models.Payment, error) {

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > MaxPaymentAmount {
		return nil, ErrAmountTooHigh
	}
	if status == PaymentRefunded {
		return nil, ErrInvalidPaymentStatus
	}

	return &models.Payment{
		Method:            string(method),
		Status:            string(status),
		Amount:            amount,
		ExternalReference: uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ApplyPaymentStatus is the payment-status-changed event: a payment reaching
// "pago" confirms its pending reservation. Reports that repeat the current
// status are accepted without changes.
func ApplyPaymentStatus(
	r *models.Reservation,
	p *models.Payment,
	status PaymentStatus,
	now time.Time,
) error {

	current := PaymentStatus(p.Status)
	if current == status {
		return nil
	}

	switch status {
	case PaymentPaid:
		if current == PaymentRefunded {
			return ErrPaymentRefunded
		}
		if Status(r.Status) == StatusCancelled {
			return ErrReservationCancelled
		}
		p.Status = string(PaymentPaid)
		p.UpdatedAt = now
		return Confirm(r)

	case PaymentRefunded:
		// refunds only happen through cancellation
		return ErrInvalidPaymentStatus
	}

	return ErrInvalidPaymentTransition
}

// ===============================
// Cancellation outcome
// ===============================

type CancelOutcome int

const (
	CancelledPlain CancelOutcome = iota
	CancelledWithRefund
	CancelledWithoutRefund
)

func (o CancelOutcome) Refunded() bool {
	return o == CancelledWithRefund
}

func (o CancelOutcome) Message() string {
	switch o {
	case CancelledWithRefund:
		return "Reserva cancelada com sucesso. O valor será reembolsado."
	case CancelledWithoutRefund:
		return "Reserva cancelada com sucesso. Cancelamento com menos de 24h de antecedência não tem reembolso."
	}
	return "Reserva cancelada com sucesso."
}

// EvaluateRefund runs after the reservation is cancelled. A paid payment is
// refunded when the lead time is at least RefundThreshold; otherwise it is
// left as is.
func EvaluateRefund(
	r *models.Reservation,
	loc *models.Location,
	p *models.Payment,
	now time.Time,
) CancelOutcome {

	if p == nil || PaymentStatus(p.Status) != PaymentPaid {
		return CancelledPlain
	}

	lead := StartsAt(loc, r.Date, r.StartTime).Sub(now)
	if lead < RefundThreshold {
		return CancelledWithoutRefund
	}

	at := now
	p.Status = string(PaymentRefunded)
	p.RefundedAt = &at
	p.UpdatedAt = now
	return CancelledWithRefund
}
