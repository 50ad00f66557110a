package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/audit"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
}

func NewAuditLogsHandler(logs AuditLogLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// List: GET /api/me/audit-logs?action=&entity=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.Authenticated() {
		httperr.Respond(c, domain.ErrUnauthenticated, "", "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Escopo: dono vê os eventos dos seus locais
	// --------------------------------------------------

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if actor.IsOwner() {
		f.OwnerID = actor.UserID
	} else {
		f.UserID = actor.UserID
	}

	// --------------------------------------------------
	// Filtros de período
	// --------------------------------------------------

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(models.DateLayout, fromStr); err == nil {
			f.From = &from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(models.DateLayout, toStr); err == nil {
			end := to.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
