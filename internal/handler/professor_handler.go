package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
	"github.com/noah-isme/grade-horaria-api/pkg/response"
)

type professorService interface {
	List(ctx context.Context, params dto.ProfessorListParams) ([]models.ProfessorSummary, *models.Pagination, map[string]interface{}, error)
	Get(ctx context.Context, matricula int64) (*models.Professor, error)
	Create(ctx context.Context, body json.RawMessage) (*models.Professor, error)
	Import(ctx context.Context, items []json.RawMessage) ([]dto.ProfessorImportResult, error)
	Delete(ctx context.Context, matricula int64) error
	Export(ctx context.Context, format string) (*dto.ProfessorExport, error)
}

// ProfessorHandler exposes staff records.
type ProfessorHandler struct {
	professors professorService
}

// NewProfessorHandler constructs a ProfessorHandler.
func NewProfessorHandler(professors professorService) *ProfessorHandler {
	return &ProfessorHandler{professors: professors}
}

// List handles GET /professores.
func (h *ProfessorHandler) List(c *gin.Context) {
	page, okPage := intQuery(c, "page", 1)
	size, okSize := intQuery(c, "page_size", 50)
	if !okPage || !okSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Parâmetros de paginação inválidos"))
		return
	}
	params := dto.ProfessorListParams{
		Page:     page,
		PageSize: size,
		OrderBy:  c.DefaultQuery("order_by", models.ProfessorSortNome),
		OrderDir: c.DefaultQuery("order_dir", "asc"),
	}

	rows, pagination, meta, err := h.professors.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination, meta)
}

// Get handles GET /professores/:matricula.
func (h *ProfessorHandler) Get(c *gin.Context) {
	matricula, err := int64Param(c, "matricula")
	if err != nil {
		response.Error(c, err)
		return
	}
	professor, err := h.professors.Get(c.Request.Context(), matricula)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor, nil)
}

// Create handles POST /professores.
func (h *ProfessorHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, invalidBody(err))
		return
	}
	professor, err := h.professors.Create(c.Request.Context(), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, professor, "Professor incluído com sucesso")
}

// Import handles POST /professores/importacao-massa. Item failures are reported in the
// body; the status is 200 whenever the batch itself was readable.
func (h *ProfessorHandler) Import(c *gin.Context) {
	notList := appErrors.Clone(appErrors.ErrValidation, "O corpo da requisição deve ser uma lista de professores")

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, notList)
		return
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		response.Error(c, notList)
		return
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		response.Error(c, notList)
		return
	}
	if items == nil {
		items = []json.RawMessage{}
	}

	results, err := h.professors.Import(c.Request.Context(), items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Delete handles DELETE /professores/:matricula.
func (h *ProfessorHandler) Delete(c *gin.Context) {
	matricula, err := int64Param(c, "matricula")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.professors.Delete(c.Request.Context(), matricula); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Professor excluído com sucesso")
}

// Export handles GET /professores/exportar?formato=csv|pdf.
func (h *ProfessorHandler) Export(c *gin.Context) {
	out, err := h.professors.Export(c.Request.Context(), c.DefaultQuery("formato", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, out.ContentType, out.Body)
}
