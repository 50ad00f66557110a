package reservation

import "strings"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pendente"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Payment
// ===============================

type PaymentMethod string

const (
	MethodPix    PaymentMethod = "pix"
	MethodBoleto PaymentMethod = "boleto"
	MethodCard   PaymentMethod = "cartao"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodPix, MethodBoleto, MethodCard:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pendente"
	PaymentPaid     PaymentStatus = "pago"
	PaymentRefunded PaymentStatus = "reembolsado"
)

// ParsePaymentStatus accepts an empty string as the default (pending).
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PaymentPending, nil
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return p, nil
	}
	return "", ErrInvalidPaymentStatus
}

// ===============================
// Granularity
// ===============================

// Granularity controls how reservations are billed and how they block
// availability slots.
type Granularity string

const (
	// GranularityHour bills and blocks by whole-hour differences.
	GranularityHour Granularity = "hour"
	// GranularityMinute bills by exact elapsed time and blocks every hour
	// a reservation touches.
	GranularityMinute Granularity = "minute"
)

func ParseGranularity(s string) Granularity {
	if Granularity(strings.ToLower(strings.TrimSpace(s))) == GranularityMinute {
		return GranularityMinute
	}
	return GranularityHour
}
