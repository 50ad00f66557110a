package reservation

import (
	"context"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// ReservationFilter narrows ListReservations. Zero values are ignored.
type ReservationFilter struct {
	UserID     uint
	OwnerID    uint
	LocationID uint
	Status     Status
	Date       *models.Date

	// NewestFirst orders by date and start time descending.
	NewestFirst bool
}

type LocationCount struct {
	LocationName string `json:"location__name"`
	Count        int64  `json:"count"`
}

type Dashboard struct {
	TotalLocations          int64           `json:"total_locations"`
	TotalReservations       int64           `json:"total_reservations"`
	UpcomingReservations    int64           `json:"upcoming_reservations"`
	ReservationsPerLocation []LocationCount `json:"reservations_per_location"`
}

type Repository interface {
	// -------- Transaction --------
	// WithinTransaction runs fn against a repository bound to one
	// transaction. Returning an error rolls everything back.
	WithinTransaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Location --------
	GetLocation(
		ctx context.Context,
		id uint,
	) (*models.Location, error)

	// LockLocationDay serializes admissions for one (location, date) until
	// the surrounding transaction ends.
	LockLocationDay(
		ctx context.Context,
		locationID uint,
		date models.Date,
	) error

	// -------- Reservation (create / conflict) --------
	ListOverlapping(
		ctx context.Context,
		locationID uint,
		date models.Date,
		start models.TimeOfDay,
		end models.TimeOfDay,
	) ([]models.Reservation, error)

	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	// -------- Reservation (state change) --------
	// GetReservation preloads Location and Payment.
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	// GetReservationForUpdate locks the reservation row and preloads its
	// Location and Payment.
	GetReservationForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	// GetPayment reads without locking. Row locks are always taken
	// reservation first, then payment.
	GetPayment(
		ctx context.Context,
		id uint,
	) (*models.Payment, error)

	GetPaymentForUpdate(
		ctx context.Context,
		id uint,
	) (*models.Payment, error)

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	UpdatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	// -------- Availability / listing --------
	ListActiveForDay(
		ctx context.Context,
		locationID uint,
		date models.Date,
	) ([]models.Reservation, error)

	ListReservations(
		ctx context.Context,
		f ReservationFilter,
	) ([]models.Reservation, error)

	OwnerDashboard(
		ctx context.Context,
		ownerID uint,
		from models.Date,
	) (*Dashboard, error)
}
