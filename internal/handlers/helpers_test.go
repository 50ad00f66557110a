package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/testfixtures"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

var (
	testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	anonymous = domain.Actor{}
	customer  = domain.Actor{UserID: 5, Role: domain.RoleCustomer}
	stranger  = domain.Actor{UserID: 6, Role: domain.RoleCustomer}
	owner     = domain.Actor{UserID: 99, Role: domain.RoleOwner}
	rival     = domain.Actor{UserID: 98, Role: domain.RoleOwner}
)

type env struct {
	repo  *testfixtures.MemoryRepository
	cache *testfixtures.SlotCache
	store *testfixtures.ObjectStore
	clock *clock.Fixed
	audit *audit.Dispatcher
	loc   *models.Location

	router *gin.Engine
}

// asActor stands in for AuthMiddleware: the test sets the caller directly.
func asActor(a *domain.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Authenticated() {
			c.Set(middleware.ContextUserID, a.UserID)
			c.Set(middleware.ContextUserRole, string(a.Role))
		}
		c.Next()
	}
}

func newEnv(t *testing.T) (*env, *domain.Actor) {
	t.Helper()

	e := &env{
		repo:  testfixtures.NewMemoryRepository(),
		cache: testfixtures.NewSlotCache(),
		store: testfixtures.NewObjectStore(),
		clock: clock.NewFixed(testNow),
	}
	e.audit = audit.NewDispatcher(nil)
	t.Cleanup(e.audit.Close)

	e.loc = e.repo.AddLocation(models.Location{
		OwnerID:             owner.UserID,
		Name:                "Quadra Central",
		Address:             "Rua das Flores, 10",
		Timezone:            "UTC",
		PricePerHour:        50,
		OperatingHoursStart: models.MustTimeOfDay("08:00"),
		OperatingHoursEnd:   models.MustTimeOfDay("18:00"),
		CancellationHours:   24,
		MaxDuration:         4,
		IsActive:            true,
	})

	g := domain.GranularityHour

	reservations := NewReservationHandler(
		ucReservation.NewCreateReservation(e.repo, e.clock, e.cache, e.audit, g),
		ucReservation.NewCancelReservation(e.repo, e.clock, e.cache, e.audit),
		ucReservation.NewGetReservation(e.repo),
		ucReservation.NewListReservations(e.repo),
	)
	payments := NewPaymentHandler(ucReservation.NewUpdatePaymentStatus(e.repo, e.clock, e.audit))
	dashboard := NewDashboardHandler(ucReservation.NewOwnerDashboard(e.repo, e.clock))
	public := NewPublicHandler(e.repo, ucReservation.NewGetAvailability(e.repo, e.cache, g))
	locations := NewLocationHandler(e.repo, domain.LocationDefaults{
		Opening:           models.MustTimeOfDay("08:00"),
		Closing:           models.MustTimeOfDay("18:00"),
		CancellationHours: 24,
		MaxDuration:       4,
		Timezone:          "America/Sao_Paulo",
	}, e.cache, e.audit)
	images := NewLocationImageHandler(e.repo, e.store, e.audit)

	actor := &domain.Actor{}

	r := gin.New()
	api := r.Group("/api")
	api.GET("/locations", public.ListLocations)
	api.GET("/locations/:id", public.GetLocation)
	api.GET("/locations/:id/available-slots", public.AvailableSlots)
	api.POST("/payments/:id/status", payments.UpdateStatus)

	secured := api.Group("/", asActor(actor))
	secured.POST("/locations", locations.Create)
	secured.PATCH("/locations/:id", locations.Update)
	secured.DELETE("/locations/:id", locations.Deactivate)
	secured.POST("/locations/:id/images", images.Upload)
	secured.DELETE("/locations/:id/images/:imageId", images.Delete)
	secured.GET("/owner/locations", locations.ListMine)
	secured.GET("/owner/dashboard", dashboard.Owner)
	secured.POST("/reservations", reservations.Create)
	secured.GET("/reservations", reservations.List)
	secured.GET("/reservations/:id", reservations.Get)
	secured.PATCH("/reservations/:id/cancel", reservations.Cancel)
	secured.GET("/customer/reservations", reservations.CustomerHistory)

	e.router = r
	return e, actor
}

func serve(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return out
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	got := decode[httperr.HTTPError](t, w)
	if got.Code != code {
		t.Fatalf("error_code = %q, want %q", got.Code, code)
	}
	if got.Message == "" {
		t.Fatal("message must not be empty")
	}
}

type listBody[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func seedReservation(e *env, userID uint, date models.Date, start, end string, status domain.Status, p *models.Payment) *models.Reservation {
	return e.repo.AddReservation(models.Reservation{
		UserID:     userID,
		LocationID: e.loc.ID,
		Date:       date,
		StartTime:  models.MustTimeOfDay(start),
		EndTime:    models.MustTimeOfDay(end),
		Status:     string(status),
		Payment:    p,
	})
}
