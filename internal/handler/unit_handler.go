package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/response"
)

type unitService interface {
	List(ctx context.Context) ([]models.Unit, error)
	Get(ctx context.Context, code int64) (*models.Unit, error)
	Create(ctx context.Context, req dto.CreateUnitRequest) (*models.Unit, error)
	Delete(ctx context.Context, code int64) error
}

// UnitHandler wires unit services to HTTP routes.
type UnitHandler struct {
	units unitService
}

// NewUnitHandler constructs a UnitHandler.
func NewUnitHandler(units unitService) *UnitHandler {
	return &UnitHandler{units: units}
}

// List handles GET /unidades.
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.units.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if units == nil {
		units = []models.Unit{}
	}
	response.JSON(c, http.StatusOK, units, nil)
}

// Get handles GET /unidades/:codigo.
func (h *UnitHandler) Get(c *gin.Context) {
	code, err := int64Param(c, "codigo")
	if err != nil {
		response.Error(c, err)
		return
	}
	unit, err := h.units.Get(c.Request.Context(), code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, unit, nil)
}

// Create handles POST /unidades.
func (h *UnitHandler) Create(c *gin.Context) {
	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	unit, err := h.units.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, unit, "Unidade criada com sucesso")
}

// Delete handles DELETE /unidades/:codigo.
func (h *UnitHandler) Delete(c *gin.Context) {
	code, err := int64Param(c, "codigo")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.units.Delete(c.Request.Context(), code); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Unidade excluída com sucesso")
}
