package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

const (
	msgUnitExists     = "codigoUnidade já existe"
	msgUnitNotFound   = "Unidade não encontrada"
	msgUnitHasMembers = "Exclusão negada: existem usuários vinculados"
)

type unitRepository interface {
	List(ctx context.Context) ([]models.Unit, error)
	FindByCode(ctx context.Context, code int64) (*models.Unit, error)
	Exists(ctx context.Context, code int64) (bool, error)
	Create(ctx context.Context, unit *models.Unit) error
	Delete(ctx context.Context, code int64) (int64, error)
}

// UnitService manages organizational units.
type UnitService struct {
	tx        unitOfWork
	repo      unitRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewUnitService constructs a UnitService.
func NewUnitService(tx unitOfWork, repo unitRepository, validate *validator.Validate, logger *zap.Logger) *UnitService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitService{tx: tx, repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns every unit ordered by code.
func (s *UnitService) List(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := s.tx.WithinTx(ctx, "unit.list", func(ctx context.Context) error {
		var err error
		units, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		s.logger.Error("failed to list units", zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao listar unidades")
	}
	return units, nil
}

// Get returns a unit by code.
func (s *UnitService) Get(ctx context.Context, code int64) (*models.Unit, error) {
	var unit *models.Unit
	err := s.tx.WithinTx(ctx, "unit.get", func(ctx context.Context) error {
		var err error
		unit, err = s.repo.FindByCode(ctx, code)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUnitNotFound)
		}
		s.logger.Error("failed to load unit", zap.Int64("codigo_unidade", code), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao carregar unidade")
	}
	return unit, nil
}

// Create registers a unit under its caller-assigned code.
func (s *UnitService) Create(ctx context.Context, req dto.CreateUnitRequest) (*models.Unit, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	unit := &models.Unit{
		Codigo:             *req.CodigoUnidade,
		Nome:               *req.NomeUnidadeFatec,
		DenominacaoOficial: *req.DenominacaoOficial,
		NomeDiretor:        *req.NomeDiretor,
		DataInclusao:       models.Timestamp(s.now()),
	}

	err := s.tx.WithinTx(ctx, "unit.create", func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, unit.Codigo)
		if err != nil {
			return err
		}
		if exists {
			return appErrors.Clone(appErrors.ErrConflict, msgUnitExists)
		}
		return s.repo.Create(ctx, unit)
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msgUnitExists)
		}
		s.logger.Error("failed to create unit", zap.Int64("codigo_unidade", unit.Codigo), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao criar unidade")
	}

	s.logger.Info("unit created", zap.Int64("codigo_unidade", unit.Codigo))
	return unit, nil
}

// Delete removes a unit. Units still referenced by users are kept and reported as a conflict.
func (s *UnitService) Delete(ctx context.Context, code int64) error {
	var affected int64
	err := s.tx.WithinTx(ctx, "unit.delete", func(ctx context.Context) error {
		var err error
		affected, err = s.repo.Delete(ctx, code)
		return err
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msgUnitHasMembers)
		}
		s.logger.Error("failed to delete unit", zap.Int64("codigo_unidade", code), zap.Error(err))
		return appErrors.Internal(err, "falha ao excluir unidade")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, msgUnitNotFound)
	}
	return nil
}
