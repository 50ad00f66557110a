package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	ucReservation "github.com/BruksfildServices01/reservas-api/internal/usecase/reservation"
)

// PaymentHandler receives status reports from the payment capture service.
// Routes are guarded by middleware.WebhookSecret.
type PaymentHandler struct {
	update *ucReservation.UpdatePaymentStatus
}

func NewPaymentHandler(update *ucReservation.UpdatePaymentStatus) *PaymentHandler {
	return &PaymentHandler{update: update}
}

type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus: POST /api/payments/:id/status
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id", "payment_not_found", "Pagamento não encontrado.")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	r, err := h.update.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_payment", "Erro ao atualizar pagamento.")
		return
	}

	c.JSON(http.StatusOK, r)
}
