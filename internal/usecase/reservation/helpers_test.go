package reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/testfixtures"
)

var (
	testNow      = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	testTomorrow = models.NewDate(2026, 10, 19)

	customer = domain.Actor{UserID: 5, Role: domain.RoleCustomer}
	owner    = domain.Actor{UserID: 99, Role: domain.RoleOwner}
)

type auditSpy struct {
	mu      sync.Mutex
	actions []string
}

func (s *auditSpy) Record(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, ev.Action)
	return nil
}

func (s *auditSpy) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

type fixture struct {
	repo  *testfixtures.MemoryRepository
	cache *testfixtures.SlotCache
	clock *clock.Fixed
	spy   *auditSpy
	audit *audit.Dispatcher
	loc   *models.Location

	create  *CreateReservation
	cancel  *CancelReservation
	payment *UpdatePaymentStatus
	slots   *GetAvailability
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:  testfixtures.NewMemoryRepository(),
		cache: testfixtures.NewSlotCache(),
		clock: clock.NewFixed(testNow),
		spy:   &auditSpy{},
	}
	f.audit = audit.NewDispatcher(nil, f.spy)
	t.Cleanup(f.audit.Close)

	f.loc = f.repo.AddLocation(models.Location{
		OwnerID:             owner.UserID,
		Name:                "Quadra Central",
		Timezone:            "UTC",
		PricePerHour:        50,
		OperatingHoursStart: models.MustTimeOfDay("08:00"),
		OperatingHoursEnd:   models.MustTimeOfDay("18:00"),
		CancellationHours:   24,
		MaxDuration:         4,
		IsActive:            true,
	})

	f.create = NewCreateReservation(f.repo, f.clock, f.cache, f.audit, domain.GranularityHour)
	f.cancel = NewCancelReservation(f.repo, f.clock, f.cache, f.audit)
	f.payment = NewUpdatePaymentStatus(f.repo, f.clock, f.audit)
	f.slots = NewGetAvailability(f.repo, f.cache, domain.GranularityHour)
	return f
}

func (f *fixture) input(date models.Date, start, end string) CreateReservationInput {
	return CreateReservationInput{
		Actor:         customer,
		LocationID:    f.loc.ID,
		Date:          date,
		StartTime:     models.MustTimeOfDay(start),
		EndTime:       models.MustTimeOfDay(end),
		PaymentMethod: "pix",
	}
}

// seed stores a reservation for the fixture location directly.
func (f *fixture) seed(status domain.Status, date models.Date, start, end string, payment *models.Payment) *models.Reservation {
	return f.repo.AddReservation(models.Reservation{
		UserID:     customer.UserID,
		LocationID: f.loc.ID,
		Date:       date,
		StartTime:  models.MustTimeOfDay(start),
		EndTime:    models.MustTimeOfDay(end),
		Status:     string(status),
		Payment:    payment,
	})
}
