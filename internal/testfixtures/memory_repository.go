// Package testfixtures holds in-memory collaborators used by package tests.
package testfixtures

import (
	"context"
	"fmt"
	"sort"
	"sync"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

type LockKey struct {
	LocationID uint
	Date       string
}

// MemoryRepository implements domain.Repository and
// domain.LocationRepository over maps. Transactions are
// serialized and rolled back on error, which mirrors the per-day lock of the
// Postgres repository.
type MemoryRepository struct {
	txMu sync.Mutex

	mu           sync.Mutex
	locations    map[uint]models.Location
	reservations map[uint]models.Reservation
	payments     map[uint]models.Payment
	images       map[uint]models.LocationImage
	nextID       uint

	locks    []LockKey
	rowLocks []string

	// FailCreateReservation, when set, is returned by CreateReservation.
	FailCreateReservation error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		locations:    map[uint]models.Location{},
		reservations: map[uint]models.Reservation{},
		payments:     map[uint]models.Payment{},
		images:       map[uint]models.LocationImage{},
	}
}

// ======================================================
// Seeding / inspection
// ======================================================

func (m *MemoryRepository) AddLocation(loc models.Location) *models.Location {
	m.mu.Lock()
	defer m.mu.Unlock()

	if loc.ID == 0 {
		loc.ID = m.id()
	}
	m.locations[loc.ID] = loc
	return &loc
}

// AddReservation stores r (and its payment, if any) as-is.
func (m *MemoryRepository) AddReservation(r models.Reservation) *models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == 0 {
		r.ID = m.id()
	}
	if r.Payment != nil {
		p := *r.Payment
		if p.ID == 0 {
			p.ID = m.id()
		}
		p.ReservationID = r.ID
		m.payments[p.ID] = p
		r.Payment = &p
	}
	m.storeReservation(r)
	return &r
}

func (m *MemoryRepository) Reservations() []models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, m.hydrate(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryRepository) Payment(id uint) (models.Payment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	return p, ok
}

func (m *MemoryRepository) Locks() []LockKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LockKey(nil), m.locks...)
}

// RowLocks lists the FOR UPDATE reads in call order, as "reservation:<id>"
// or "payment:<id>".
func (m *MemoryRepository) RowLocks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.rowLocks...)
}

// id must be called with mu held.
func (m *MemoryRepository) id() uint {
	m.nextID++
	return m.nextID
}

func (m *MemoryRepository) storeReservation(r models.Reservation) {
	r.Payment = nil
	r.Location = models.Location{}
	m.reservations[r.ID] = r
}

func (m *MemoryRepository) hydrate(r models.Reservation) models.Reservation {
	r.Location = m.locations[r.LocationID]
	for _, p := range m.payments {
		if p.ReservationID == r.ID {
			p := p
			r.Payment = &p
			break
		}
	}
	return r
}

// ======================================================
// Transaction
// ======================================================

func (m *MemoryRepository) WithinTransaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	locs, res, pays, next := cloneMap(m.locations), cloneMap(m.reservations), cloneMap(m.payments), m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.locations, m.reservations, m.payments, m.nextID = locs, res, pays, next
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ======================================================
// Location
// ======================================================

func (m *MemoryRepository) GetLocation(ctx context.Context, id uint) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loc, ok := m.locations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &loc, nil
}

func (m *MemoryRepository) LockLocationDay(ctx context.Context, locationID uint, date models.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks = append(m.locks, LockKey{LocationID: locationID, Date: date.String()})
	return nil
}

// ======================================================
// Reservation
// ======================================================

func (m *MemoryRepository) ListOverlapping(
	ctx context.Context,
	locationID uint,
	date models.Date,
	start models.TimeOfDay,
	end models.TimeOfDay,
) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for _, r := range m.reservations {
		if r.LocationID != locationID || !r.Date.Equal(date) {
			continue
		}
		if domain.Status(r.Status) == domain.StatusCancelled {
			continue
		}
		if domain.Overlaps(r, start, end) {
			out = append(out, r)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *MemoryRepository) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if m.FailCreateReservation != nil {
		return m.FailCreateReservation
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.id()
	m.storeReservation(*r)
	return nil
}

func (m *MemoryRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p.ID = m.id()
	m.payments[p.ID] = *p
	return nil
}

func (m *MemoryRepository) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reservations[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	r = m.hydrate(r)
	return &r, nil
}

func (m *MemoryRepository) GetReservationForUpdate(ctx context.Context, id uint) (*models.Reservation, error) {
	m.mu.Lock()
	m.rowLocks = append(m.rowLocks, fmt.Sprintf("reservation:%d", id))
	m.mu.Unlock()

	return m.GetReservation(ctx, id)
}

func (m *MemoryRepository) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (m *MemoryRepository) GetPaymentForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rowLocks = append(m.rowLocks, fmt.Sprintf("payment:%d", id))
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (m *MemoryRepository) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reservations[r.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	m.storeReservation(*r)
	return nil
}

func (m *MemoryRepository) UpdatePayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.payments[p.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	m.payments[p.ID] = *p
	return nil
}

// ======================================================
// Availability / listing
// ======================================================

func (m *MemoryRepository) ListActiveForDay(
	ctx context.Context,
	locationID uint,
	date models.Date,
) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for _, r := range m.reservations {
		if r.LocationID == locationID && r.Date.Equal(date) &&
			domain.Status(r.Status) != domain.StatusCancelled {
			out = append(out, r)
		}
	}
	sortByStart(out)
	return out, nil
}

func (m *MemoryRepository) ListReservations(
	ctx context.Context,
	f domain.ReservationFilter,
) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Reservation
	for _, r := range m.reservations {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.OwnerID != 0 && m.locations[r.LocationID].OwnerID != f.OwnerID {
			continue
		}
		if f.LocationID != 0 && r.LocationID != f.LocationID {
			continue
		}
		if f.Status != "" && domain.Status(r.Status) != f.Status {
			continue
		}
		if f.Date != nil && !r.Date.Equal(*f.Date) {
			continue
		}
		out = append(out, m.hydrate(r))
	}

	sortByStart(out)
	if f.NewestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *MemoryRepository) OwnerDashboard(
	ctx context.Context,
	ownerID uint,
	from models.Date,
) (*domain.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := &domain.Dashboard{ReservationsPerLocation: []domain.LocationCount{}}
	perLocation := map[string]int64{}

	for _, loc := range m.locations {
		if loc.OwnerID == ownerID {
			d.TotalLocations++
		}
	}

	for _, r := range m.reservations {
		loc := m.locations[r.LocationID]
		if loc.OwnerID != ownerID {
			continue
		}
		d.TotalReservations++
		perLocation[loc.Name]++
		if domain.Status(r.Status) == domain.StatusConfirmed && !r.Date.Before(from.Time) {
			d.UpcomingReservations++
		}
	}

	for name, count := range perLocation {
		d.ReservationsPerLocation = append(d.ReservationsPerLocation, domain.LocationCount{
			LocationName: name,
			Count:        count,
		})
	}
	sort.Slice(d.ReservationsPerLocation, func(i, j int) bool {
		return d.ReservationsPerLocation[i].LocationName < d.ReservationsPerLocation[j].LocationName
	})

	return d, nil
}

func sortByStart(rs []models.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].Date.Equal(rs[j].Date) {
			return rs[i].Date.Before(rs[j].Date.Time)
		}
		if rs[i].StartTime != rs[j].StartTime {
			return rs[i].StartTime < rs[j].StartTime
		}
		return rs[i].ID < rs[j].ID
	})
}

var (
	_ domain.Repository         = (*MemoryRepository)(nil)
	_ domain.LocationRepository = (*MemoryRepository)(nil)
)
