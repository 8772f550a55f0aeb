package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

const (
	msgUserNotFound     = "Usuário não encontrado"
	msgUserEmailExists  = "email já existe"
	msgUserUnitMissing  = "codigoUnidade inexistente"
	msgPasswordRequired = "Senha é obrigatória"
)

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, email string) (int64, error)
}

type unitLookup interface {
	Exists(ctx context.Context, code int64) (bool, error)
}

// NormalizeEmail is the canonical key form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserService handles user registration and lookups.
type UserService struct {
	tx         unitOfWork
	repo       userRepository
	units      unitLookup
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
	bcryptCost int
}

// NewUserService creates an instance of UserService.
func NewUserService(tx unitOfWork, repo userRepository, units unitLookup, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &UserService{
		tx:         tx,
		repo:       repo,
		units:      units,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Create registers a user bound to an existing unit.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	email := NormalizeEmail(*req.EmailFatec)
	if email == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Campos obrigatórios ausentes: emailFatec")
	}
	password := req.Password()
	if password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgPasswordRequired)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao processar senha")
	}

	user := &models.User{
		Email:           email,
		NumeroMatricula: req.NumeroMatricula,
		CodigoUnidade:   *req.CodigoUnidade,
		NomeFuncionario: *req.NomeFuncionario,
		SenhaHash:       string(hash),
		IndicadorAtivo:  1,
		DataInclusao:    models.Timestamp(s.now()),
	}

	err = s.tx.WithinTx(ctx, "user.create", func(ctx context.Context) error {
		unitExists, err := s.units.Exists(ctx, user.CodigoUnidade)
		if err != nil {
			return err
		}
		if !unitExists {
			return appErrors.Clone(appErrors.ErrUnprocessable, msgUserUnitMissing)
		}
		taken, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return appErrors.Clone(appErrors.ErrConflict, msgUserEmailExists)
		}
		return s.repo.Create(ctx, user)
	})
	if err != nil {
		var appErr *appErrors.Error
		switch {
		case errors.As(err, &appErr):
			return nil, appErr
		case database.IsUniqueViolation(err):
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msgUserEmailExists)
		case database.IsForeignKeyViolation(err):
			return nil, appErrors.Wrap(err, appErrors.ErrUnprocessable.Code, appErrors.ErrUnprocessable.Status, msgUserUnitMissing)
		}
		s.logger.Error("failed to create user", zap.String("email", email), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao criar usuário")
	}

	s.logger.Info("user created", zap.String("email", email), zap.Int64("codigo_unidade", user.CodigoUnidade))
	return user, nil
}

// Get returns the user registered under email, matched case-insensitively.
func (s *UserService) Get(ctx context.Context, email string) (*models.User, error) {
	email = NormalizeEmail(email)
	var user *models.User
	err := s.tx.WithinTx(ctx, "user.get", func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		s.logger.Error("failed to load user", zap.String("email", email), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao carregar usuário")
	}
	return user, nil
}

// Delete removes the user registered under email.
func (s *UserService) Delete(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	var affected int64
	err := s.tx.WithinTx(ctx, "user.delete", func(ctx context.Context) error {
		var err error
		affected, err = s.repo.Delete(ctx, email)
		return err
	})
	if err != nil {
		s.logger.Error("failed to delete user", zap.String("email", email), zap.Error(err))
		return appErrors.Internal(err, "falha ao excluir usuário")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
	}
	return nil
}
