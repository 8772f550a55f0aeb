package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

type stubUnitService struct {
	created   *dto.CreateUnitRequest
	getErr    error
	deleteErr error
	deleted   int64
}

func (s *stubUnitService) List(ctx context.Context) ([]models.Unit, error) {
	return nil, nil
}

func (s *stubUnitService) Get(ctx context.Context, code int64) (*models.Unit, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &models.Unit{Codigo: code, Nome: "Fatec"}, nil
}

func (s *stubUnitService) Create(ctx context.Context, req dto.CreateUnitRequest) (*models.Unit, error) {
	s.created = &req
	return &models.Unit{Codigo: *req.CodigoUnidade, Nome: *req.NomeUnidadeFatec}, nil
}

func (s *stubUnitService) Delete(ctx context.Context, code int64) error {
	s.deleted = code
	return s.deleteErr
}

func unitRouter(svc unitService) *gin.Engine {
	h := NewUnitHandler(svc)
	r := gin.New()
	r.GET("/unidades", h.List)
	r.POST("/unidades", h.Create)
	r.GET("/unidades/:codigo", h.Get)
	r.DELETE("/unidades/:codigo", h.Delete)
	return r
}

func TestUnitHandlerCreate(t *testing.T) {
	svc := &stubUnitService{}
	rec, env := perform(t, unitRouter(svc), http.MethodPost, "/unidades",
		`{"codigoUnidade": 10, "nomeUnidadeFatec": "Fatec", "denominacaoOficial": "Faculdade", "nomeDiretor": "Maria"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, int64(10), *svc.created.CodigoUnidade)
	assert.JSONEq(t, `{"codigoUnidade":10,"nomeUnidadeFatec":"Fatec","denominacaoOficial":"","nomeDiretor":"","dataInclusao":""}`, string(env.Data))
}

func TestUnitHandlerCreateMalformedBody(t *testing.T) {
	rec, env := perform(t, unitRouter(&stubUnitService{}), http.MethodPost, "/unidades", `{"codigoUnidade": "dez"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestUnitHandlerListReturnsEmptyArray(t *testing.T) {
	rec, env := perform(t, unitRouter(&stubUnitService{}), http.MethodGet, "/unidades", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestUnitHandlerGet(t *testing.T) {
	rec, _ := perform(t, unitRouter(&stubUnitService{}), http.MethodGet, "/unidades/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc := &stubUnitService{getErr: appErrors.Clone(appErrors.ErrNotFound, "Unidade não encontrada")}
	rec, env := perform(t, unitRouter(svc), http.MethodGet, "/unidades/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Unidade não encontrada", env.Error.Message)
}

func TestUnitHandlerDeleteConflict(t *testing.T) {
	svc := &stubUnitService{deleteErr: appErrors.Clone(appErrors.ErrConflict, "Exclusão negada: existem usuários vinculados")}
	rec, env := perform(t, unitRouter(svc), http.MethodDelete, "/unidades/4", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, int64(4), svc.deleted)
	assert.Equal(t, "Exclusão negada: existem usuários vinculados", env.Error.Message)
}
