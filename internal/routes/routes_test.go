package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	"github.com/BruksfildServices01/reservas-api/internal/clock"
	"github.com/BruksfildServices01/reservas-api/internal/config"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/logger"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/testfixtures"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noUsers struct{}

func (noUsers) FindUser(context.Context, uint) (*models.User, error) {
	return nil, domain.ErrRecordNotFound
}
func (noUsers) FindUserByEmail(context.Context, string) (*models.User, error) {
	return nil, domain.ErrRecordNotFound
}
func (noUsers) CreateUser(context.Context, *models.User) error { return nil }

type noLogs struct{}

func (noLogs) List(context.Context, audit.Filter) ([]models.AuditLog, int64, error) {
	return nil, 0, nil
}

type app struct {
	router *gin.Engine
	repo   *testfixtures.MemoryRepository
	cfg    *config.Config
	loc    *models.Location
}

func newApp(t *testing.T) *app {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:            "routes-secret",
		PaymentWebhookSecret: "hook-secret",
		BillingGranularity:   "hour",
		LocationDefaults: config.LocationDefaults{
			Opening:           "08:00",
			Closing:           "18:00",
			CancellationHours: 24,
			MaxDuration:       4,
			Timezone:          "UTC",
		},
	}

	repo := testfixtures.NewMemoryRepository()
	loc := repo.AddLocation(models.Location{
		OwnerID:             99,
		Name:                "Quadra",
		Timezone:            "UTC",
		PricePerHour:        40,
		OperatingHoursStart: models.MustTimeOfDay("08:00"),
		OperatingHoursEnd:   models.MustTimeOfDay("18:00"),
		CancellationHours:   24,
		MaxDuration:         4,
		IsActive:            true,
	})

	dispatcher := audit.NewDispatcher(nil)
	t.Cleanup(dispatcher.Close)

	r := gin.New()
	if err := RegisterRoutes(r, Deps{
		Config:       cfg,
		Log:          logger.Discard(),
		Clock:        clock.System{},
		Audit:        dispatcher,
		Reservations: repo,
		Locations:    repo,
		Users:        noUsers{},
		AuditLogs:    noLogs{},
		Cache:        testfixtures.NewSlotCache(),
	}); err != nil {
		t.Fatal(err)
	}

	return &app{router: r, repo: repo, cfg: cfg, loc: loc}
}

func (a *app) do(t *testing.T, method, path, token string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRoutes_ReservationFlow(t *testing.T) {
	a := newApp(t)

	token, err := middleware.SignToken(a.cfg.JWTSecret, 5, "customer", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	// far enough ahead for any wall clock the suite runs at
	date := time.Now().UTC().AddDate(0, 0, 10).Format(models.DateLayout)

	w := a.do(t, http.MethodPost, "/api/reservations", "", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status = %d", w.Code)
	}

	w = a.do(t, http.MethodPost, "/api/reservations", token, nil, map[string]any{
		"location":       a.loc.ID,
		"date":           date,
		"start_time":     "10:00",
		"end_time":       "12:00",
		"payment_method": "cartao",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}

	var created models.Reservation
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.Payment == nil || created.Payment.Amount != 80 {
		t.Fatalf("unexpected payment: %+v", created.Payment)
	}

	// public availability reflects the booking
	w = a.do(t, http.MethodGet, fmt.Sprintf("/api/locations/%d/available-slots?date=%s", a.loc.ID, date), "", nil, nil)
	var slots struct {
		AvailableSlots []string `json:"available_slots"`
	}
	json.Unmarshal(w.Body.Bytes(), &slots)
	for _, s := range slots.AvailableSlots {
		if s == "10:00" || s == "11:00" {
			t.Fatalf("slot %s should be taken: %v", s, slots.AvailableSlots)
		}
	}

	statusPath := fmt.Sprintf("/api/payments/%d/status", created.Payment.ID)

	w = a.do(t, http.MethodPost, statusPath, "", nil, map[string]string{"status": "pago"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("webhook without secret: status = %d", w.Code)
	}

	w = a.do(t, http.MethodPost, statusPath, "", map[string]string{middleware.HeaderWebhookSecret: "hook-secret"}, map[string]string{"status": "pago"})
	if w.Code != http.StatusOK {
		t.Fatalf("webhook: status = %d, body %s", w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel", created.ID), token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status = %d, body %s", w.Code, w.Body.String())
	}

	var cancelled struct {
		Refunded bool `json:"refunded"`
	}
	json.Unmarshal(w.Body.Bytes(), &cancelled)
	if !cancelled.Refunded {
		t.Fatal("paid reservation cancelled 10 days ahead must be refunded")
	}
}

func TestLocationDefaults(t *testing.T) {
	d := LocationDefaults(config.LocationDefaults{
		Opening:           "07:30",
		Closing:           "not a time",
		CancellationHours: 12,
		MaxDuration:       3,
		Timezone:          "America/Recife",
	})

	if d.Opening.String() != "07:30" || d.Closing.String() != "18:00" {
		t.Fatalf("unexpected hours: %s-%s", d.Opening, d.Closing)
	}
	if d.CancellationHours != 12 || d.MaxDuration != 3 || d.Timezone != "America/Recife" {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}
