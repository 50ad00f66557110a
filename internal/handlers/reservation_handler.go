package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/httpresp"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type ReservationHandler struct {
	create *ucReservation.CreateReservation
	cancel *ucReservation.CancelReservation
	get    *ucReservation.GetReservation
	list   *ucReservation.ListReservations
}

func NewReservationHandler(
	create *ucReservation.CreateReservation,
	cancel *ucReservation.CancelReservation,
	get *ucReservation.GetReservation,
	list *ucReservation.ListReservations,
) *ReservationHandler {
	return &ReservationHandler{
		create: create,
		cancel: cancel,
		get:    get,
		list:   list,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateReservationRequest struct {
	Location      uint   `json:"location" binding:"required"`
	Date          string `json:"date" binding:"required,isodate"`
	StartTime     string `json:"start_time" binding:"required,hhmm"`
	EndTime       string `json:"end_time" binding:"required,hhmm"`
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentStatus string `json:"payment_status"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	// formatos já validados pelo binding
	date, _ := models.ParseDate(req.Date)
	start, _ := models.ParseTimeOfDay(req.StartTime)
	end, _ := models.ParseTimeOfDay(req.EndTime)

	r, err := h.create.Execute(
		c.Request.Context(),
		ucReservation.CreateReservationInput{
			Actor:         middleware.ActorFrom(c),
			LocationID:    req.Location,
			Date:          date,
			StartTime:     start,
			EndTime:       end,
			PaymentMethod: req.PaymentMethod,
			PaymentStatus: req.PaymentStatus,
		},
	)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_reservation", "Erro ao criar reserva.")
		return
	}

	c.JSON(http.StatusCreated, r)
}

// ======================================================
// CANCEL
// ======================================================

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id", "reservation_not_found", "Reserva não encontrada.")
	if !ok {
		return
	}

	out, err := h.cancel.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_cancel_reservation", "Erro ao cancelar reserva.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     out.Outcome.Message(),
		"refunded":    out.Outcome.Refunded(),
		"reservation": out.Reservation,
	})
}

// ======================================================
// GET
// ======================================================

func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id", "reservation_not_found", "Reserva não encontrada.")
	if !ok {
		return
	}

	r, err := h.get.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_reservation", "Erro ao buscar reserva.")
		return
	}

	httpresp.OK(c, r)
}

// ======================================================
// LIST
// ======================================================

// List: GET /api/reservations?status=&date=&location=
func (h *ReservationHandler) List(c *gin.Context) {
	in := ucReservation.ListReservationsInput{
		Actor:  middleware.ActorFrom(c),
		Status: c.Query("status"),
	}

	locationID, ok := queryUint(c, "location")
	if !ok {
		httperr.BadRequest(c, "invalid_location", "Local inválido.")
		return
	}
	in.LocationID = locationID

	if raw := c.Query("date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		in.Date = &date
	}

	h.respondList(c, in)
}

// CustomerHistory lists the caller's own reservations, newest first.
func (h *ReservationHandler) CustomerHistory(c *gin.Context) {
	h.respondList(c, ucReservation.ListReservationsInput{
		Actor:      middleware.ActorFrom(c),
		Status:     c.Query("status"),
		OwnHistory: true,
	})
}

func (h *ReservationHandler) respondList(c *gin.Context, in ucReservation.ListReservationsInput) {
	out, err := h.list.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_reservations", "Erro ao listar reservas.")
		return
	}

	httpresp.List(c, out)
}
