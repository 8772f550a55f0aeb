package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/grade-horaria-api/internal/dto"
	"github.com/noah-isme/grade-horaria-api/internal/models"
	appErrors "github.com/noah-isme/grade-horaria-api/pkg/errors"
)

func newUserServiceForTest(users *mockUserRepo, units *mockUnitRepo) *UserService {
	svc := NewUserService(&fakeUoW{}, users, units, nil, nil)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func validUserRequest() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		EmailFatec:      strPtr("  Ana.Souza@Fatec.SP.gov.br "),
		CodigoUnidade:   int64Ptr(10),
		NomeFuncionario: strPtr("Ana Souza"),
		NumeroMatricula: models.NewNullInt(4411),
		SenhaLogin:      "segredo",
	}
}

func unitsWith(codes ...int64) *mockUnitRepo {
	repo := &mockUnitRepo{items: map[int64]*models.Unit{}}
	for _, c := range codes {
		repo.items[c] = &models.Unit{Codigo: c}
	}
	return repo
}

func TestUserServiceCreate(t *testing.T) {
	users := &mockUserRepo{}
	svc := newUserServiceForTest(users, unitsWith(10))

	user, err := svc.Create(context.Background(), validUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "ana.souza@fatec.sp.gov.br", user.Email)
	assert.Equal(t, 1, user.IndicadorAtivo)

	stored := users.items["ana.souza@fatec.sp.gov.br"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "segredo", stored.SenhaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SenhaHash), []byte("segredo")))
}

func TestUserServiceCreateKeepsSubmittedName(t *testing.T) {
	users := &mockUserRepo{}
	svc := newUserServiceForTest(users, unitsWith(10))
	req := validUserRequest()
	req.NomeFuncionario = strPtr(" Ana Souza  ")

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	stored := users.items["ana.souza@fatec.sp.gov.br"]
	require.NotNil(t, stored)
	assert.Equal(t, " Ana Souza  ", stored.NomeFuncionario)
}

func TestUserServiceCreateAcceptsSenhaAlias(t *testing.T) {
	users := &mockUserRepo{}
	svc := newUserServiceForTest(users, unitsWith(10))
	req := validUserRequest()
	req.SenhaLogin = ""
	req.Senha = "outra"

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	stored := users.items["ana.souza@fatec.sp.gov.br"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.SenhaHash), []byte("outra")))
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc := newUserServiceForTest(&mockUserRepo{}, unitsWith(10))

	t.Run("missing fields", func(t *testing.T) {
		req := validUserRequest()
		req.NomeFuncionario = nil
		_, err := svc.Create(context.Background(), req)
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, "Campos obrigatórios ausentes: nomeFuncionario", appErr.Message)
	})

	t.Run("missing password", func(t *testing.T) {
		req := validUserRequest()
		req.SenhaLogin = ""
		_, err := svc.Create(context.Background(), req)
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, "Senha é obrigatória", appErr.Message)
	})

	t.Run("negative registration number", func(t *testing.T) {
		req := validUserRequest()
		req.NumeroMatricula = models.NewNullInt(-1)
		_, err := svc.Create(context.Background(), req)
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, "Valores inválidos: numeroMatricula", appErr.Message)
	})
}

func TestUserServiceCreateUnknownUnit(t *testing.T) {
	users := &mockUserRepo{}
	svc := newUserServiceForTest(users, unitsWith(99))

	_, err := svc.Create(context.Background(), validUserRequest())
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "codigoUnidade inexistente", appErr.Message)
	assert.Empty(t, users.items)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	users := &mockUserRepo{items: map[string]*models.User{"ana.souza@fatec.sp.gov.br": {}}}
	svc := newUserServiceForTest(users, unitsWith(10))

	_, err := svc.Create(context.Background(), validUserRequest())
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "email já existe", appErr.Message)
}

func TestUserServiceCreateUniqueRace(t *testing.T) {
	users := &mockUserRepo{createErr: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}}
	svc := newUserServiceForTest(users, unitsWith(10))

	_, err := svc.Create(context.Background(), validUserRequest())
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestUserServiceGetAndDelete(t *testing.T) {
	users := &mockUserRepo{items: map[string]*models.User{"bia@fatec.sp.gov.br": {Email: "bia@fatec.sp.gov.br", NomeFuncionario: "Bia"}}}
	svc := newUserServiceForTest(users, unitsWith())

	user, err := svc.Get(context.Background(), " BIA@fatec.sp.gov.br")
	require.NoError(t, err)
	assert.Equal(t, "Bia", user.NomeFuncionario)

	require.NoError(t, svc.Delete(context.Background(), "Bia@Fatec.sp.gov.br"))
	assert.Empty(t, users.items)

	err = svc.Delete(context.Background(), "bia@fatec.sp.gov.br")
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "Usuário não encontrado", appErr.Message)

	_, err = svc.Get(context.Background(), "bia@fatec.sp.gov.br")
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}
