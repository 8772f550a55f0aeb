package dto

import (
	"time"

	"github.com/noah-isme/grade-horaria-api/internal/models"
)

// CreateUserRequest is the payload for registering a user. The password may arrive as
// senhaLogin or senha.
type CreateUserRequest struct {
	EmailFatec      *string        `json:"emailFatec" validate:"required"`
	CodigoUnidade   *int64         `json:"codigoUnidade" validate:"required"`
	NomeFuncionario *string        `json:"nomeFuncionario" validate:"required"`
	NumeroMatricula models.NullInt `json:"numeroMatricula" validate:"omitempty,gte=0"`
	SenhaLogin      string         `json:"senhaLogin"`
	Senha           string         `json:"senha"`
}

// Password returns the plaintext password from whichever alias was sent.
func (r CreateUserRequest) Password() string {
	if r.SenhaLogin != "" {
		return r.SenhaLogin
	}
	return r.Senha
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
	Senha string `json:"senha" validate:"required"`
}

// LoginResponse is the authenticated profile plus an access token.
type LoginResponse struct {
	models.UserProfile
	Token    string    `json:"token"`
	ExpiraEm time.Time `json:"expiraEm"`
}
