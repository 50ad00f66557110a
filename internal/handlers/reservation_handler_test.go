package handlers

import (
	"fmt"
	"net/http"
	"testing"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

var tomorrow = models.NewDate(2026, 10, 19)

func reservationBody(locationID uint, start, end string) map[string]any {
	return map[string]any{
		"location":       locationID,
		"date":           "2026-10-19",
		"start_time":     start,
		"end_time":       end,
		"payment_method": "pix",
	}
}

func TestReservationHandler_Create(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	w := serve(e.router, http.MethodPost, "/api/reservations", reservationBody(e.loc.ID, "09:00", "11:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := decode[models.Reservation](t, w)
	if got.ID == 0 || got.Status != "pendente" || got.UserID != customer.UserID {
		t.Fatalf("unexpected reservation: %+v", got)
	}
	if got.StartTime.String() != "09:00" || got.EndTime.String() != "11:00" || got.Date.String() != "2026-10-19" {
		t.Fatalf("unexpected times: %+v", got)
	}
	if got.Payment == nil || got.Payment.Amount != 100 || got.Payment.Status != "pendente" {
		t.Fatalf("unexpected payment: %+v", got.Payment)
	}
}

func TestReservationHandler_CreatePaidIsConfirmed(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	body := reservationBody(e.loc.ID, "14:00", "15:00")
	body["payment_status"] = "pago"

	w := serve(e.router, http.MethodPost, "/api/reservations", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode[models.Reservation](t, w); got.Status != "confirmed" {
		t.Fatalf("status = %q, want confirmed", got.Status)
	}
}

func TestReservationHandler_CreateRejections(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Actor
		mutate func(b map[string]any)
		status int
		code   string
	}{
		{
			name:   "anonymous",
			actor:  anonymous,
			status: http.StatusUnauthorized,
			code:   "unauthenticated",
		},
		{
			name:   "missing payment method",
			actor:  customer,
			mutate: func(b map[string]any) { delete(b, "payment_method") },
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "malformed time",
			actor:  customer,
			mutate: func(b map[string]any) { b["start_time"] = "9h" },
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "malformed date",
			actor:  customer,
			mutate: func(b map[string]any) { b["date"] = "19/10/2026" },
			status: http.StatusBadRequest,
			code:   "invalid_request",
		},
		{
			name:   "inverted range",
			actor:  customer,
			mutate: func(b map[string]any) { b["start_time"], b["end_time"] = "11:00", "09:00" },
			status: http.StatusBadRequest,
			code:   "invalid_time_range",
		},
		{
			name:   "too long",
			actor:  customer,
			mutate: func(b map[string]any) { b["start_time"], b["end_time"] = "08:00", "13:00" },
			status: http.StatusBadRequest,
			code:   "exceeds_max_duration",
		},
		{
			name:   "unknown payment method",
			actor:  customer,
			mutate: func(b map[string]any) { b["payment_method"] = "cheque" },
			status: http.StatusBadRequest,
			code:   "invalid_payment_method",
		},
		{
			name:   "within a single hour",
			actor:  customer,
			mutate: func(b map[string]any) { b["start_time"], b["end_time"] = "10:15", "10:45" },
			status: http.StatusBadRequest,
			code:   "invalid_amount",
		},
		{
			name:   "unknown location",
			actor:  customer,
			mutate: func(b map[string]any) { b["location"] = 4242 },
			status: http.StatusNotFound,
			code:   "location_not_found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, actor := newEnv(t)
			*actor = tt.actor

			body := reservationBody(e.loc.ID, "09:00", "11:00")
			if tt.mutate != nil {
				tt.mutate(body)
			}

			w := serve(e.router, http.MethodPost, "/api/reservations", body)
			assertError(t, w, tt.status, tt.code)

			if n := len(e.repo.Reservations()); n != 0 {
				t.Fatalf("no reservation should be stored, got %d", n)
			}
		})
	}
}

func TestReservationHandler_CreateConflict(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	seedReservation(e, stranger.UserID, tomorrow, "10:00", "12:00", domain.StatusConfirmed, nil)

	w := serve(e.router, http.MethodPost, "/api/reservations", reservationBody(e.loc.ID, "11:00", "13:00"))
	assertError(t, w, http.StatusBadRequest, "time_conflict")

	// adjacent is fine
	w = serve(e.router, http.MethodPost, "/api/reservations", reservationBody(e.loc.ID, "12:00", "13:00"))
	if w.Code != http.StatusCreated {
		t.Fatalf("adjacent reservation: status = %d, body %s", w.Code, w.Body.String())
	}
}

type cancelBody struct {
	Message     string             `json:"message"`
	Refunded    bool               `json:"refunded"`
	Reservation models.Reservation `json:"reservation"`
}

func TestReservationHandler_CancelWithRefund(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	in3Days := models.NewDate(2026, 10, 21)
	r := seedReservation(e, customer.UserID, in3Days, "10:00", "12:00", domain.StatusConfirmed, &models.Payment{
		Method: "pix",
		Status: "pago",
		Amount: 100,
	})

	w := serve(e.router, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel", r.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := decode[cancelBody](t, w)
	if !got.Refunded || got.Message != domain.CancelledWithRefund.Message() {
		t.Fatalf("unexpected outcome: %+v", got)
	}
	if got.Reservation.Status != "cancelled" || got.Reservation.CancelledAt == nil {
		t.Fatalf("unexpected reservation: %+v", got.Reservation)
	}
	if got.Reservation.Payment == nil || got.Reservation.Payment.Status != "reembolsado" {
		t.Fatalf("payment should be refunded: %+v", got.Reservation.Payment)
	}

	// twice
	w = serve(e.router, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel", r.ID), nil)
	assertError(t, w, http.StatusBadRequest, "already_cancelled")
}

func TestReservationHandler_CancelPastDeadline(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	// starts in 23h, deadline is 24h
	r := seedReservation(e, customer.UserID, tomorrow, "11:00", "12:00", domain.StatusPending, nil)

	w := serve(e.router, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel", r.ID), nil)
	assertError(t, w, http.StatusBadRequest, "cancellation_deadline_expired")
}

func TestReservationHandler_CancelAccess(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Actor
		path   string
		status int
		code   string
	}{
		{"someone else's", stranger, "/api/reservations/%d/cancel", http.StatusNotFound, "reservation_not_found"},
		{"location owner", owner, "/api/reservations/%d/cancel", http.StatusForbidden, "forbidden"},
		{"unknown id", customer, "/api/reservations/9999/cancel", http.StatusNotFound, "reservation_not_found"},
		{"non numeric id", customer, "/api/reservations/abc/cancel", http.StatusNotFound, "reservation_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, actor := newEnv(t)
			*actor = tt.actor

			r := seedReservation(e, customer.UserID, models.NewDate(2026, 10, 25), "10:00", "11:00", domain.StatusPending, nil)

			path := tt.path
			if path == "/api/reservations/%d/cancel" {
				path = fmt.Sprintf(path, r.ID)
			}

			w := serve(e.router, http.MethodPatch, path, nil)
			assertError(t, w, tt.status, tt.code)
		})
	}
}

func TestReservationHandler_GetAndList(t *testing.T) {
	e, actor := newEnv(t)

	mine := seedReservation(e, customer.UserID, tomorrow, "09:00", "10:00", domain.StatusPending, nil)
	seedReservation(e, stranger.UserID, tomorrow, "10:00", "11:00", domain.StatusConfirmed, nil)
	seedReservation(e, customer.UserID, models.NewDate(2026, 10, 20), "09:00", "10:00", domain.StatusCancelled, nil)

	*actor = customer

	w := serve(e.router, http.MethodGet, fmt.Sprintf("/api/reservations/%d", mine.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d, body %s", w.Code, w.Body.String())
	}
	if got := decode[models.Reservation](t, w); got.ID != mine.ID {
		t.Fatalf("got reservation %d, want %d", got.ID, mine.ID)
	}

	w = serve(e.router, http.MethodGet, "/api/reservations", nil)
	if got := decode[listBody[models.Reservation]](t, w); got.Total != 2 {
		t.Fatalf("customer should see own 2 reservations, got %d", got.Total)
	}

	w = serve(e.router, http.MethodGet, "/api/reservations?status=pendente&date=2026-10-19", nil)
	if got := decode[listBody[models.Reservation]](t, w); got.Total != 1 || got.Data[0].ID != mine.ID {
		t.Fatalf("filtered listing: %+v", got)
	}

	*actor = owner
	w = serve(e.router, http.MethodGet, fmt.Sprintf("/api/reservations?location=%d", e.loc.ID), nil)
	if got := decode[listBody[models.Reservation]](t, w); got.Total != 3 {
		t.Fatalf("owner should see all 3 reservations of the location, got %d", got.Total)
	}

	*actor = stranger
	w = serve(e.router, http.MethodGet, fmt.Sprintf("/api/reservations/%d", mine.ID), nil)
	assertError(t, w, http.StatusNotFound, "reservation_not_found")
}

func TestReservationHandler_ListRejections(t *testing.T) {
	e, actor := newEnv(t)
	*actor = customer

	assertError(t, serve(e.router, http.MethodGet, "/api/reservations?date=amanha", nil), http.StatusBadRequest, "invalid_date")
	assertError(t, serve(e.router, http.MethodGet, "/api/reservations?location=x", nil), http.StatusBadRequest, "invalid_location")
	assertError(t, serve(e.router, http.MethodGet, "/api/reservations?status=done", nil), http.StatusBadRequest, "invalid_status")
}

func TestReservationHandler_CustomerHistoryNewestFirst(t *testing.T) {
	e, actor := newEnv(t)
	*actor = owner

	older := seedReservation(e, owner.UserID, tomorrow, "09:00", "10:00", domain.StatusPending, nil)
	newer := seedReservation(e, owner.UserID, models.NewDate(2026, 10, 20), "09:00", "10:00", domain.StatusPending, nil)
	seedReservation(e, customer.UserID, tomorrow, "11:00", "12:00", domain.StatusPending, nil)

	w := serve(e.router, http.MethodGet, "/api/customer/reservations", nil)
	got := decode[listBody[models.Reservation]](t, w)

	if got.Total != 2 {
		t.Fatalf("history must only hold the caller's reservations, got %d", got.Total)
	}
	if got.Data[0].ID != newer.ID || got.Data[1].ID != older.ID {
		t.Fatalf("history order = [%d %d], want [%d %d]", got.Data[0].ID, got.Data[1].ID, newer.ID, older.ID)
	}
}
