package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

// txAttempts bounds how often a transaction aborted by a deadlock or
// serialization failure is run again.
const txAttempts = 3

func (r *ReservationGormRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return retryTransaction(ctx, txAttempts, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&ReservationGormRepository{db: tx})
		})
	})
}

func retryTransaction(ctx context.Context, attempts int, run func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = run(); err == nil || !httperr.IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// --------------------------------------------------
// Location
// --------------------------------------------------

func (r *ReservationGormRepository) GetLocation(
	ctx context.Context,
	id uint,
) (*models.Location, error) {

	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &loc, nil
}

// LockLocationDay takes a transaction-scoped advisory lock on
// advisoryKey(location, date). It is released on commit or rollback.
func (r *ReservationGormRepository) LockLocationDay(
	ctx context.Context,
	locationID uint,
	date models.Date,
) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?)", advisoryKey(locationID, date)).
		Error
}

// advisoryKey hashes (location, date) into the single bigint lock space.
// A collision only serializes two unrelated days.
func advisoryKey(locationID uint, date models.Date) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "reservas:%d:%s", locationID, date.String())
	return int64(h.Sum64())
}

// --------------------------------------------------
// Reservation (create / conflict)
// --------------------------------------------------

func (r *ReservationGormRepository) ListOverlapping(
	ctx context.Context,
	locationID uint,
	date models.Date,
	start models.TimeOfDay,
	end models.TimeOfDay,
) ([]models.Reservation, error) {

	var res []models.Reservation
	if err := r.db.WithContext(ctx).
		Where(
			"location_id = ? AND date = ? AND status <> ? AND start_time < ? AND end_time > ?",
			locationID, date, string(domain.StatusCancelled), end, start,
		).
		Order("start_time ASC").
		Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(res).Error
}

func (r *ReservationGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// --------------------------------------------------
// Reservation (state change)
// --------------------------------------------------

func (r *ReservationGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Payment").
		First(&res, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetReservationForUpdate(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Location").
		Preload("Payment").
		First(&res, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

func (r *ReservationGormRepository) GetPayment(
	ctx context.Context,
	id uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ReservationGormRepository) GetPaymentForUpdate(
	ctx context.Context,
	id uint,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ReservationGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(res).Error
}

func (r *ReservationGormRepository) UpdatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// --------------------------------------------------
// Availability / listing
// --------------------------------------------------

func (r *ReservationGormRepository) ListActiveForDay(
	ctx context.Context,
	locationID uint,
	date models.Date,
) ([]models.Reservation, error) {

	var res []models.Reservation
	if err := r.db.WithContext(ctx).
		Select("id", "location_id", "date", "start_time", "end_time", "status").
		Where(
			"location_id = ? AND date = ? AND status <> ?",
			locationID, date, string(domain.StatusCancelled),
		).
		Order("start_time ASC").
		Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationGormRepository) ListReservations(
	ctx context.Context,
	f domain.ReservationFilter,
) ([]models.Reservation, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Preload("Location").
		Preload("Payment")

	if f.OwnerID != 0 {
		q = q.Joins("JOIN locations ON locations.id = reservations.location_id").
			Where("locations.owner_id = ?", f.OwnerID)
	}
	if f.UserID != 0 {
		q = q.Where("reservations.user_id = ?", f.UserID)
	}
	if f.LocationID != 0 {
		q = q.Where("reservations.location_id = ?", f.LocationID)
	}
	if f.Status != "" {
		q = q.Where("reservations.status = ?", string(f.Status))
	}
	if f.Date != nil {
		q = q.Where("reservations.date = ?", *f.Date)
	}

	if f.NewestFirst {
		q = q.Order("reservations.date DESC, reservations.start_time DESC")
	} else {
		q = q.Order("reservations.date ASC, reservations.start_time ASC")
	}

	var res []models.Reservation
	if err := q.Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationGormRepository) OwnerDashboard(
	ctx context.Context,
	ownerID uint,
	from models.Date,
) (*domain.Dashboard, error) {

	db := r.db.WithContext(ctx)
	d := &domain.Dashboard{}

	if err := db.Model(&models.Location{}).
		Where("owner_id = ?", ownerID).
		Count(&d.TotalLocations).Error; err != nil {
		return nil, err
	}

	owned := func() *gorm.DB {
		return db.Model(&models.Reservation{}).
			Joins("JOIN locations ON locations.id = reservations.location_id").
			Where("locations.owner_id = ?", ownerID)
	}

	if err := owned().Count(&d.TotalReservations).Error; err != nil {
		return nil, err
	}

	if err := owned().
		Where("reservations.date >= ? AND reservations.status = ?", from, string(domain.StatusConfirmed)).
		Count(&d.UpcomingReservations).Error; err != nil {
		return nil, err
	}

	if err := owned().
		Select("locations.name AS location_name, COUNT(reservations.id) AS count").
		Group("locations.name").
		Order("locations.name ASC").
		Scan(&d.ReservationsPerLocation).Error; err != nil {
		return nil, err
	}

	return d, nil
}

// Compile-time check
var _ domain.Repository = (*ReservationGormRepository)(nil)
