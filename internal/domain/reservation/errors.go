package reservation

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
)

// ErrRecordNotFound is returned by repositories for missing rows.
var ErrRecordNotFound = errors.New("record not found")

// Admission
var (
	ErrInvalidTimeRange      = httperr.Validation("invalid_time_range", "O horário de início deve ser anterior ao horário de término.")
	ErrOutsideOperatingHours = httperr.Validation("outside_operating_hours", "Horário fora do horário de funcionamento do local.")
	ErrReservationInPast     = httperr.Validation("reservation_in_past", "Não é possível fazer reservas no passado.")
	ErrTimeConflict          = httperr.Validation("time_conflict", "Conflito com outra reserva existente neste horário.")
)

func ErrExceedsMaxDuration(maxHours int) error {
	return httperr.Validation(
		"exceeds_max_duration",
		fmt.Sprintf("Duração excede o máximo permitido de %d horas.", maxHours),
	)
}

// State
var (
	ErrAlreadyCancelled         = httperr.StateConflict("already_cancelled", "Reserva já cancelada.")
	ErrCancellationDeadline     = httperr.StateConflict("cancellation_deadline_expired", "Prazo para cancelamento expirado.")
	ErrReservationCancelled     = httperr.StateConflict("reservation_cancelled", "Reserva cancelada não pode ser confirmada.")
	ErrPaymentRefunded          = httperr.StateConflict("payment_refunded", "Pagamento já reembolsado.")
	ErrInvalidPaymentTransition = httperr.StateConflict("invalid_payment_transition", "Transição de status de pagamento inválida.")
)

// Input
var (
	ErrInvalidPaymentMethod = httperr.Validation("invalid_payment_method", "Método de pagamento inválido.")
	ErrInvalidPaymentStatus = httperr.Validation("invalid_payment_status", "Status de pagamento inválido.")
	ErrInvalidStatusFilter  = httperr.Validation("invalid_status", "Status de reserva inválido.")
	ErrInvalidAmount        = httperr.Validation("invalid_amount", "O valor da reserva deve ser maior que zero.")
	ErrAmountTooHigh        = httperr.Validation("amount_too_high", "O valor da reserva excede o máximo permitido.")
)

// Lookup / access
var (
	ErrLocationNotFound    = httperr.NotFoundErr("location_not_found", "Local não encontrado.")
	ErrReservationNotFound = httperr.NotFoundErr("reservation_not_found", "Reserva não encontrada.")
	ErrPaymentNotFound     = httperr.NotFoundErr("payment_not_found", "Pagamento não encontrado.")
	ErrForbidden           = httperr.ForbiddenErr("forbidden", "Você não tem permissão para esta operação.")
	ErrUnauthenticated     = httperr.UnauthorizedErr("unauthenticated", "Autenticação necessária.")
)
