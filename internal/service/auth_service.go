package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

const (
	msgInvalidPassword  = "Senha inválida"
	msgTooManyAttempts  = "Muitas tentativas de login"
	defaultTokenIssuer  = "grade-horaria-api"
	defaultTokenExpires = 8 * time.Hour
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type loginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthConfig defines configuration for access tokens.
type AuthConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	tx        unitOfWork
	repo      authUserRepository
	throttle  loginThrottle
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance. throttle may be nil.
func NewAuthService(tx unitOfWork, repo authUserRepository, throttle loginThrottle, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if throttle == nil {
		throttle = (*LoginLimiter)(nil)
	}
	if config.Expiry <= 0 {
		config.Expiry = defaultTokenExpires
	}
	if config.Issuer == "" {
		config.Issuer = defaultTokenIssuer
	}
	return &AuthService{tx: tx, repo: repo, throttle: throttle, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login checks the password of the user registered under req.Email and returns the public
// profile with a signed access token.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	email := NormalizeEmail(req.Email)

	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		s.logger.Warn("login throttle unavailable", zap.Error(err))
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrTooManyRequests, msgTooManyAttempts)
	}

	var user *models.User
	err = s.tx.WithinTx(ctx, "auth.login", func(ctx context.Context) error {
		var err error
		user, err = s.repo.FindByEmail(ctx, email)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordFailure(ctx, email)
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgUserNotFound)
		}
		s.logger.Error("failed to load user for login", zap.String("email", email), zap.Error(err))
		return nil, appErrors.Internal(err, "falha ao autenticar")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		s.recordFailure(ctx, email)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, msgInvalidPassword)
	}

	if err := s.throttle.Reset(ctx, email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.String("email", email), zap.Error(err))
	}

	token, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Internal(err, "falha ao gerar token de acesso")
	}

	return &dto.LoginResponse{
		UserProfile: user.Profile(),
		Token:       token,
		ExpiraEm:    expiresAt,
	}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.logger.Warn("failed to record login attempt", zap.String("email", email), zap.Error(err))
	}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "token inválido")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token inválido")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, time.Time, error) {
	issuedAt := s.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.config.Expiry)
	claims := &models.JWTClaims{
		Email:         user.Email,
		Nome:          user.NomeFuncionario,
		CodigoUnidade: user.CodigoUnidade,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
