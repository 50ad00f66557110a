package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/httpresp"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// LocationCache drops every cached slot list of a location after its hours
// change.
type LocationCache interface {
	InvalidateLocation(ctx context.Context, locationID uint)
}

type LocationHandler struct {
	repo     domain.LocationRepository
	defaults domain.LocationDefaults
	cache    LocationCache
	audit    *audit.Dispatcher
}

func NewLocationHandler(
	repo domain.LocationRepository,
	defaults domain.LocationDefaults,
	cache LocationCache,
	audit *audit.Dispatcher,
) *LocationHandler {
	return &LocationHandler{
		repo:     repo,
		defaults: defaults,
		cache:    cache,
		audit:    audit,
	}
}

// --------- Requests ---------

type LocationRequest struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Address             string   `json:"address"`
	Timezone            *string  `json:"timezone,omitempty"`
	PricePerHour        *float64 `json:"price_per_hour,omitempty"`
	OperatingHoursStart *string  `json:"operating_hours_start,omitempty" binding:"omitempty,hhmm"`
	OperatingHoursEnd   *string  `json:"operating_hours_end,omitempty" binding:"omitempty,hhmm"`
	CancellationHours   *int     `json:"cancellation_hours,omitempty"`
	MaxDuration         *int     `json:"max_duration,omitempty"`
}

func (r LocationRequest) toInput() domain.LocationInput {
	in := domain.LocationInput{
		Name:              r.Name,
		Description:       r.Description,
		Address:           r.Address,
		Timezone:          r.Timezone,
		PricePerHour:      r.PricePerHour,
		CancellationHours: r.CancellationHours,
		MaxDuration:       r.MaxDuration,
	}
	if r.OperatingHoursStart != nil {
		t := models.MustTimeOfDay(*r.OperatingHoursStart)
		in.OperatingHoursStart = &t
	}
	if r.OperatingHoursEnd != nil {
		t := models.MustTimeOfDay(*r.OperatingHoursEnd)
		in.OperatingHoursEnd = &t
	}
	return in
}

// --------- Handlers ---------

// ListMine: GET /api/owner/locations?query=, including inactive ones.
func (h *LocationHandler) ListMine(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.IsOwner() {
		httperr.Respond(c, domain.ErrForbidden, "", "")
		return
	}

	out, err := h.repo.ListLocations(c.Request.Context(), domain.LocationFilter{
		OwnerID: actor.UserID,
		Query:   strings.TrimSpace(c.Query("query")),
	})
	if err != nil {
		httperr.Internal(c, "failed_to_list_locations", "Erro ao listar locais.")
		return
	}

	httpresp.List(c, out)
}

func (h *LocationHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !domain.MayCreateLocation(actor) {
		httperr.Respond(c, domain.ErrForbidden, "", "")
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	loc, err := domain.NewLocation(actor.UserID, req.toInput(), h.defaults)
	if err != nil {
		httperr.Respond(c, err, "", "")
		return
	}

	if err := h.repo.CreateLocation(c.Request.Context(), loc); err != nil {
		httperr.Internal(c, "failed_to_create_location", "Erro ao criar local.")
		return
	}

	h.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(loc.ID),
		UserID:     audit.UintPtr(actor.UserID),
		Action:     "location_created",
		Entity:     "location",
		EntityID:   audit.UintPtr(loc.ID),
	})

	c.JSON(http.StatusCreated, loc)
}

// Update applies a partial change. Hours changes invalidate cached slots.
func (h *LocationHandler) Update(c *gin.Context) {
	loc, ok := loadManagedLocation(c, h.repo)
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	domain.ApplyLocationInput(loc, req.toInput())
	if err := domain.ValidateLocation(loc); err != nil {
		httperr.Respond(c, err, "", "")
		return
	}

	if !h.save(c, loc, "location_updated") {
		return
	}

	c.JSON(http.StatusOK, loc)
}

// Deactivate hides the location from browsing and admission. Existing
// reservations are kept.
func (h *LocationHandler) Deactivate(c *gin.Context) {
	loc, ok := loadManagedLocation(c, h.repo)
	if !ok {
		return
	}

	loc.IsActive = false
	if !h.save(c, loc, "location_deactivated") {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Local desativado.",
		"location": loc,
	})
}

// --------- Helpers ---------

// loadManagedLocation loads :id and checks the caller owns it.
func loadManagedLocation(c *gin.Context, repo domain.LocationRepository) (*models.Location, bool) {
	id, ok := paramID(c, "id", "location_not_found", "Local não encontrado.")
	if !ok {
		return nil, false
	}

	loc, err := repo.FindLocation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Respond(c, domain.ErrLocationNotFound, "", "")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_location", "Erro ao buscar local.")
		return nil, false
	}

	if !domain.MayManageLocation(middleware.ActorFrom(c), loc) {
		httperr.Respond(c, domain.ErrForbidden, "", "")
		return nil, false
	}
	return loc, true
}

func (h *LocationHandler) save(c *gin.Context, loc *models.Location, action string) bool {
	ctx := c.Request.Context()

	if err := h.repo.UpdateLocation(ctx, loc); err != nil {
		httperr.Internal(c, "failed_to_update_location", "Erro ao salvar o local.")
		return false
	}

	if h.cache != nil {
		h.cache.InvalidateLocation(ctx, loc.ID)
	}

	h.audit.Dispatch(audit.Event{
		LocationID: audit.UintPtr(loc.ID),
		UserID:     audit.UintPtr(middleware.ActorFrom(c).UserID),
		Action:     action,
		Entity:     "location",
		EntityID:   audit.UintPtr(loc.ID),
	})
	return true
}
