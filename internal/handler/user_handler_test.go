package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/middleware"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

type stubUserService struct {
	created *dto.CreateUserRequest
	users   map[string]*models.User
}

func (s *stubUserService) Create(ctx context.Context, req dto.CreateUserRequest) (*models.User, error) {
	s.created = &req
	return &models.User{Email: *req.EmailFatec, SenhaHash: "$2a$10$hash", IndicadorAtivo: 1}, nil
}

func (s *stubUserService) Get(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado")
}

func (s *stubUserService) Delete(ctx context.Context, email string) error {
	if _, ok := s.users[email]; !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "Usuário não encontrado")
	}
	delete(s.users, email)
	return nil
}

type stubAuthService struct {
	err error
}

func (s stubAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{
		UserProfile: models.UserProfile{NomeFuncionario: "Ana", CodigoUnidade: 10, Email: req.Email},
		Token:       "signed",
		ExpiraEm:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}, nil
}

type stubTokens struct{}

func (stubTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token inválido")
	}
	return &models.JWTClaims{Email: "ana@fatec.sp.gov.br"}, nil
}

func userRouter(users userService, auth authService) *gin.Engine {
	h := NewUserHandler(users, auth)
	r := gin.New()
	r.POST("/usuarios", h.Create)
	r.POST("/usuarios/login", h.Login)
	r.GET("/usuarios/me", middleware.JWT(stubTokens{}), h.Me)
	r.GET("/usuarios/:email", h.Get)
	r.DELETE("/usuarios/:email", h.Delete)
	return r
}

func TestUserHandlerCreateHidesHash(t *testing.T) {
	users := &stubUserService{}
	rec, env := perform(t, userRouter(users, stubAuthService{}), http.MethodPost, "/usuarios",
		`{"emailFatec": "ana@fatec.sp.gov.br", "codigoUnidade": 10, "nomeFuncionario": "Ana", "numeroMatricula": "4411", "senha": "x"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, users.created)
	assert.Equal(t, int64(4411), users.created.NumeroMatricula.Int64)
	assert.Equal(t, "x", users.created.Password())
	assert.NotContains(t, string(env.Data), "hash")
	assert.NotContains(t, rec.Body.String(), "senha")
}

func TestUserHandlerLogin(t *testing.T) {
	rec, env := perform(t, userRouter(&stubUserService{}, stubAuthService{}), http.MethodPost, "/usuarios/login",
		`{"email": "ana@fatec.sp.gov.br", "senha": "x"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nomeFuncionario":"Ana","numeroMatricula":null,"codigoUnidade":10,"emailFatec":"ana@fatec.sp.gov.br","token":"signed","expiraEm":"2024-01-01T08:00:00Z"}`, string(env.Data))

	auth := stubAuthService{err: appErrors.Clone(appErrors.ErrInvalidCredentials, "Senha inválida")}
	rec, env = perform(t, userRouter(&stubUserService{}, auth), http.MethodPost, "/usuarios/login", `{"email": "a", "senha": "b"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Senha inválida", env.Error.Message)
}

func TestUserHandlerMe(t *testing.T) {
	users := &stubUserService{users: map[string]*models.User{
		"ana@fatec.sp.gov.br": {Email: "ana@fatec.sp.gov.br", NomeFuncionario: "Ana", CodigoUnidade: 10},
	}}
	r := userRouter(users, stubAuthService{})

	rec, _ := perform(t, r, http.MethodGet, "/usuarios/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := newRequest(http.MethodGet, "/usuarios/me")
	req.Header.Set("Authorization", "Bearer good")
	rec = serve(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nomeFuncionario":"Ana"`)
}

func TestUserHandlerGetAndDelete(t *testing.T) {
	users := &stubUserService{users: map[string]*models.User{"bia@fatec.sp.gov.br": {Email: "bia@fatec.sp.gov.br"}}}
	r := userRouter(users, stubAuthService{})

	rec, _ := perform(t, r, http.MethodGet, "/usuarios/bia@fatec.sp.gov.br", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := perform(t, r, http.MethodDelete, "/usuarios/bia@fatec.sp.gov.br", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Usuário excluído com sucesso", env.Message)

	rec, _ = perform(t, r, http.MethodDelete, "/usuarios/bia@fatec.sp.gov.br", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
