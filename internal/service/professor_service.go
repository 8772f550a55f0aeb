package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
	"github.com/noah-isme/grade-horaria-api/pkg/export"
)

const (
	msgProfessorNotFound  = "Professor não encontrado"
	msgProfessorExists    = "Matrícula já cadastrada"
	msgProfessorCreated   = "Professor incluído com sucesso"
	msgProfessorNotObject = "Item inválido: esperado um objeto"
	msgProfessorFailed    = "Erro ao incluir professor"
	msgImportNotList      = "O corpo da requisição deve ser uma lista de professores"

	defaultProfessorPageSize = 50
	maxProfessorPageSize     = 200
	defaultImportMaxItems    = 1000
)

// professorOrderKeys maps every accepted order_by value to its canonical key.
var professorOrderKeys = map[string]string{
	"matricula":         models.ProfessorSortMatricula,
	"enrollment_number": models.ProfessorSortMatricula,
	"nomeProfessor":     models.ProfessorSortNome,
	"name":              models.ProfessorSortNome,
	"status":            models.ProfessorSortStatus,
}

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type professorRepository interface {
	List(ctx context.Context, filter models.ProfessorFilter) ([]models.ProfessorSummary, int, error)
	All(ctx context.Context) ([]models.Professor, error)
	FindByMatricula(ctx context.Context, matricula int64) (*models.Professor, error)
	ExistsByMatricula(ctx context.Context, matricula int64) (bool, error)
	Create(ctx context.Context, professor *models.Professor) error
	Delete(ctx context.Context, matricula int64) (int64, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type importObserver interface {
	ObserveImportItem(success bool)
}

// ProfessorConfig tunes the professor workflows.
type ProfessorConfig struct {
	ImportMaxItems int
}

// ProfessorService orchestrates staff records.
type ProfessorService struct {
	tx      unitOfWork
	repo    professorRepository
	csv     csvRenderer
	pdf     pdfRenderer
	metrics importObserver
	logger  *zap.Logger
	config  ProfessorConfig
	now     func() time.Time
}

// NewProfessorService constructs a ProfessorService. metrics may be nil.
func NewProfessorService(tx unitOfWork, repo professorRepository, csv csvRenderer, pdf pdfRenderer, metrics importObserver, logger *zap.Logger, config ProfessorConfig) *ProfessorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter(professorPDFWidths...)
	}
	if config.ImportMaxItems <= 0 {
		config.ImportMaxItems = defaultImportMaxItems
	}
	return &ProfessorService{tx: tx, repo: repo, csv: csv, pdf: pdf, metrics: metrics, logger: logger, config: config, now: time.Now}
}

// NormalizeListParams clamps paging values and resolves ordering to canonical keys.
func NormalizeListParams(params dto.ProfessorListParams) dto.ProfessorListParams {
	if params.Page < 1 {
		params.Page = 1
	}
	switch {
	case params.PageSize < 1:
		params.PageSize = defaultProfessorPageSize
	case params.PageSize > maxProfessorPageSize:
		params.PageSize = maxProfessorPageSize
	}
	// keeps (page-1)*page_size representable as an offset
	if maxPage := math.MaxInt / params.PageSize; params.Page > maxPage {
		params.Page = maxPage
	}
	key, ok := professorOrderKeys[strings.TrimSpace(params.OrderBy)]
	if !ok {
		key = models.ProfessorSortNome
	}
	params.OrderBy = key
	if strings.EqualFold(strings.TrimSpace(params.OrderDir), "asc") {
		params.OrderDir = "asc"
	} else {
		params.OrderDir = "desc"
	}
	return params
}

// List returns one page of professor summaries with pagination and the effective ordering.
func (s *ProfessorService) List(ctx context.Context, params dto.ProfessorListParams) ([]models.ProfessorSummary, *models.Pagination, map[string]interface{}, error) {
	params = NormalizeListParams(params)
	filter := models.ProfessorFilter{
		Page:       params.Page,
		PageSize:   params.PageSize,
		SortBy:     params.OrderBy,
		Descending: params.OrderDir == "desc",
	}

	var (
		rows  []models.ProfessorSummary
		total int
	)
	err := s.tx.WithinTx(ctx, "professor.list", func(ctx context.Context) error {
		var err error
		rows, total, err = s.repo.List(ctx, filter)
		return err
	})
	if err != nil {
		s.logger.Error("failed to list professors", zap.Error(err))
		return nil, nil, nil, appErrors.Internal(err, "falha ao listar professores")
	}
	if rows == nil {
		rows = []models.ProfessorSummary{}
	}

	pagination := &models.Pagination{
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: models.TotalPages(total, params.PageSize),
	}
	meta := map[string]interface{}{
		"order_by":  params.OrderBy,
		"order_dir": params.OrderDir,
	}
	return rows, pagination, meta, nil
}

// Get returns the full record for matricula.
func (s *ProfessorService) Get(ctx context.Context, matricula int64) (*models.Professor, error) {
	var professor *models.Professor
	err := s.tx.WithinTx(ctx, "professor.get", func(ctx context.Context) error {
		var err error
		professor, err = s.repo.FindByMatricula(ctx, matricula)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgProfessorNotFound)
		}
		s.logger.Error("failed to load professor", zap.Int64("matricula", matricula), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao carregar professor")
	}
	return professor, nil
}

// Create inserts a professor from a raw JSON object.
func (s *ProfessorService) Create(ctx context.Context, body json.RawMessage) (*models.Professor, error) {
	professor, err := s.decode(body)
	if err != nil {
		return nil, err
	}
	if err := s.insert(ctx, professor); err != nil {
		return nil, err
	}
	s.logger.Info("professor created", zap.Int64("matricula", professor.Matricula.Int64))
	return professor, nil
}

// Import inserts every item independently and reports one outcome per item, in input
// order. Each successful item is committed before the next one is processed, so a failing
// item never undoes earlier ones.
func (s *ProfessorService) Import(ctx context.Context, items []json.RawMessage) ([]dto.ProfessorImportResult, error) {
	if items == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgImportNotList)
	}
	if len(items) > s.config.ImportMaxItems {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			"Lote excede o limite de "+strconv.Itoa(s.config.ImportMaxItems)+" professores")
	}

	results := make([]dto.ProfessorImportResult, 0, len(items))
	succeeded := 0
	for _, item := range items {
		result := s.importOne(ctx, item)
		if result.Sucesso {
			succeeded++
		}
		if s.metrics != nil {
			s.metrics.ObserveImportItem(result.Sucesso)
		}
		results = append(results, result)
	}

	s.logger.Info("professor import finished",
		zap.Int("total", len(items)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(items)-succeeded),
	)
	return results, nil
}

func (s *ProfessorService) importOne(ctx context.Context, item json.RawMessage) dto.ProfessorImportResult {
	result := dto.ProfessorImportResult{Matricula: jsonNull, Nome: jsonNull}

	var fields map[string]json.RawMessage
	if !isJSONObject(item) || json.Unmarshal(item, &fields) != nil {
		result.Mensagem = msgProfessorNotObject
		return result
	}
	if raw, ok := fields["matricula"]; ok {
		result.Matricula = raw
	}
	if raw, ok := fields["nomeProfessor"]; ok {
		result.Nome = raw
	}

	professor, err := professorFromFields(fields)
	if err == nil {
		err = s.insert(ctx, professor)
	}
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Status < 500 {
			result.Mensagem = appErr.Message
		} else {
			result.Mensagem = msgProfessorFailed
		}
		return result
	}

	result.Sucesso = true
	result.Mensagem = msgProfessorCreated
	return result
}

// Delete removes the professor registered under matricula.
func (s *ProfessorService) Delete(ctx context.Context, matricula int64) error {
	var affected int64
	err := s.tx.WithinTx(ctx, "professor.delete", func(ctx context.Context) error {
		var err error
		affected, err = s.repo.Delete(ctx, matricula)
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete professor", zap.Int64("matricula", matricula), zap.Error(err))
		return appErrors.Internal(err, "falha ao excluir professor")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, msgProfessorNotFound)
	}
	return nil
}

// Export renders every professor, ordered by name, as a CSV or PDF attachment.
func (s *ProfessorService) Export(ctx context.Context, format string) (*dto.ProfessorExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Formato de exportação inválido: use csv ou pdf")
	}

	var professors []models.Professor
	err := s.tx.WithinTx(ctx, "professor.export", func(ctx context.Context) error {
		var err error
		professors, err = s.repo.All(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("failed to load professors for export", zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao exportar professores")
	}

	dataset := professorDataset(professors)
	stamp := s.now().Format("20060102-150405")
	out := &dto.ProfessorExport{Filename: "professores-" + stamp + "." + format}
	switch format {
	case FormatPDF:
		out.ContentType = "application/pdf"
		out.Body, err = s.pdf.Render(dataset)
	default:
		out.ContentType = "text/csv; charset=utf-8"
		out.Body, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.logger.Error("failed to render professor export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao exportar professores")
	}
	return out, nil
}

func (s *ProfessorService) decode(body json.RawMessage) (*models.Professor, error) {
	var fields map[string]json.RawMessage
	if !isJSONObject(body) || json.Unmarshal(body, &fields) != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "O corpo da requisição deve ser um objeto")
	}
	return professorFromFields(fields)
}

// insert stores professor in its own unit of work, stamping the inclusion time.
func (s *ProfessorService) insert(ctx context.Context, professor *models.Professor) error {
	professor.DataInclusao = models.Timestamp(s.now())
	matricula := professor.Matricula.Int64

	err := s.tx.WithinTx(ctx, "professor.create", func(ctx context.Context) error {
		exists, err := s.repo.ExistsByMatricula(ctx, matricula)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.Clone(appErrors.ErrConflict, msgProfessorExists)
		}
		return s.repo.Create(ctx, professor)
	})
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if database.IsUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msgProfessorExists)
	}
	s.logger.Error("failed to insert professor", zap.Int64("matricula", matricula), zap.Error(err))
	return appErrors.Internal(err, msgProfessorFailed)
}

func professorFromFields(fields map[string]json.RawMessage) (*models.Professor, error) {
	professor, missing, invalid := models.ProfessorFromFields(fields)
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Campos ausentes: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Valores inválidos: "+strings.Join(invalid, ", "))
	}
	return professor, nil
}

var jsonNull = json.RawMessage("null")

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

var professorExportHeaders = []string{
	"Matrícula", "Nome", "Status", "Regime Jurídico", "Carga Horária", "Hora Atividade",
	"HAE-O", "HAE-C", "Obs. Manhã", "Obs. Tarde", "Obs. Noite",
}

var professorPDFWidths = []float64{20, 55, 14, 26, 22, 22, 14, 14}

func professorDataset(professors []models.Professor) export.Dataset {
	rows := make([][]string, 0, len(professors))
	for _, p := range professors {
		rows = append(rows, []string{
			p.Matricula.Text(),
			p.NomeProfessor.Text(),
			p.StatusSituacao.Text(),
			p.RegimeJuridico.Text(),
			p.CargaHoraria.Text(),
			p.HoraAtividade.Text(),
			p.HAEO.Text(),
			p.HAEC.Text(),
			p.ObsManha.Text(),
			p.ObsTarde.Text(),
			p.ObsNoite.Text(),
		})
	}
	return export.Dataset{Title: "Professores", Headers: professorExportHeaders, Rows: rows}
}
