package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/middleware"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
	"github.com/noah-isme/grade-horaria-api/pkg/response"
)

type userService interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	Get(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, email string) error
}

type authService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// UserHandler exposes user registration, lookup and login.
type UserHandler struct {
	users userService
	auth  authService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users userService, auth authService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

// Create handles POST /usuarios.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user, "Usuário criado com sucesso")
}

// Login handles POST /usuarios/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Get handles GET /usuarios/:email.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Me handles GET /usuarios/me for the authenticated caller.
func (h *UserHandler) Me(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.users.Get(c.Request.Context(), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user.Profile(), nil)
}

// Delete handles DELETE /usuarios/:email.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("email")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Usuário excluído com sucesso")
}
