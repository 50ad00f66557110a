package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
)

type MeHandler struct {
	users UserStore
}

func NewMeHandler(users UserStore) *MeHandler {
	return &MeHandler{users: users}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.Authenticated() {
		httperr.Unauthorized(c, "user_not_in_context", "Autenticação necessária.")
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Erro ao buscar usuário.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userJSON(user),
	})
}
