package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/httpresp"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the routes that need no authentication: browsing
// active locations and their free slots.
type PublicHandler struct {
	locations    domain.LocationRepository
	availability *ucReservation.GetAvailability
}

func NewPublicHandler(
	locations domain.LocationRepository,
	availability *ucReservation.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		locations:    locations,
		availability: availability,
	}
}

////////////////////////////////////////////////////////
// LOCATIONS
////////////////////////////////////////////////////////

// ListLocations: GET /api/locations?query=
func (h *PublicHandler) ListLocations(c *gin.Context) {
	out, err := h.locations.ListLocations(c.Request.Context(), domain.LocationFilter{
		ActiveOnly: true,
		Query:      strings.TrimSpace(c.Query("query")),
	})
	if err != nil {
		httperr.Internal(c, "failed_to_list_locations", "Erro ao listar locais.")
		return
	}

	httpresp.List(c, out)
}

// GetLocation: GET /api/locations/:id. Inactive locations are hidden.
func (h *PublicHandler) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id", "location_not_found", "Local não encontrado.")
	if !ok {
		return
	}

	loc, err := h.locations.FindLocation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrLocationNotFound, "", "")
			return
		}
		httperr.Internal(c, "failed_to_get_location", "Erro ao buscar local.")
		return
	}
	if !loc.IsActive {
		httperr.Respond(c, domain.ErrLocationNotFound, "", "")
		return
	}

	httpresp.OK(c, loc)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// AvailableSlots: GET /api/locations/:id/available-slots?date=YYYY-MM-DD
func (h *PublicHandler) AvailableSlots(c *gin.Context) {
	id, ok := paramID(c, "id", "location_not_found", "Local não encontrado.")
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := models.ParseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida. Use o formato AAAA-MM-DD.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			LocationID: id,
			Date:       date,
		},
	)
	if err != nil {
		httperr.Respond(c, err, "availability_failed", "Erro ao calcular horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            date.String(),
		"available_slots": slots,
	})
}
