package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/reservas-api/internal/clock"
	"github.com/BruksfildServices01/reservas-api/internal/config"
	domain "github.com/BruksfildServices01/reservas-api/internal/domain/reservation"
	"github.com/BruksfildServices01/reservas-api/internal/httperr"
	"github.com/BruksfildServices01/reservas-api/internal/middleware"
	"github.com/BruksfildServices01/reservas-api/internal/models"
	"github.com/BruksfildServices01/reservas-api/internal/validators"
)

type UserStore interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

type AuthHandler struct {
	users  UserStore
	config *config.Config
	clock  clock.Clock

	// CheckEmailDomain defaults to a DNS lookup.
	CheckEmailDomain func(email string) bool
}

func NewAuthHandler(users UserStore, cfg *config.Config, clk clock.Clock) *AuthHandler {
	return &AuthHandler{
		users:            users,
		config:           cfg,
		clock:            clk,
		CheckEmailDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	CPF      string `json:"cpf"`
	UserType string `json:"user_type" binding:"required,oneof=owner customer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !h.CheckEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	ctx := c.Request.Context()

	if _, err := h.users.FindUserByEmail(ctx, email); err == nil {
		httperr.BadRequest(c, "email_already_exists", "E-mail já cadastrado.")
		return
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		CPF:          req.CPF,
		Role:         req.UserType,
	}

	if err := h.users.CreateUser(ctx, &user); err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "email_already_exists", "E-mail já cadastrado.")
			return
		}
		httperr.Internal(c, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	token, err := middleware.SignToken(h.config.JWTSecret, user.ID, user.Role, h.clock.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":  userJSON(&user),
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.users.FindUserByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.SignToken(h.config.JWTSecret, user.ID, user.Role, h.clock.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// Refresh: POST /api/auth/refresh
// Reissues a token for the caller. Role changes since the previous token are
// picked up from the stored user.
func (h *AuthHandler) Refresh(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if !actor.Authenticated() {
		httperr.Unauthorized(c, "user_not_in_context", "Autenticação necessária.")
		return
	}

	user, err := h.users.FindUser(c.Request.Context(), actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			httperr.Unauthorized(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	token, err := middleware.SignToken(h.config.JWTSecret, user.ID, user.Role, h.clock.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  userJSON(user),
		"token": token,
	})
}

// UserType: GET /api/auth/user-type
func (h *AuthHandler) UserType(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"user_type": string(actor.Role),
		"is_owner":  actor.IsOwner(),
	})
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"cpf":       u.CPF,
		"user_type": u.Role,
	}
}
