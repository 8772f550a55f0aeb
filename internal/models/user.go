package models

// User is a login-capable account (usuario) tied to a unit, keyed by normalized email.
type User struct {
	Email           string  `db:"email" json:"emailFatec"`
	NumeroMatricula NullInt `db:"numero_matricula" json:"numeroMatricula"`
	CodigoUnidade   int64   `db:"codigo_unidade" json:"codigoUnidade"`
	NomeFuncionario string  `db:"nome_funcionario" json:"nomeFuncionario"`
	SenhaHash       string  `db:"senha_hash" json:"-"`
	IndicadorAtivo  int     `db:"indicador_ativo" json:"indicadorAtivo"`
	DataInclusao    string  `db:"data_inclusao" json:"dataInclusao"`
}

// UserProfile is the subset of a user returned after authentication.
type UserProfile struct {
	NomeFuncionario string  `json:"nomeFuncionario"`
	NumeroMatricula NullInt `json:"numeroMatricula"`
	CodigoUnidade   int64   `json:"codigoUnidade"`
	Email           string  `json:"emailFatec"`
}

// Profile projects the user onto UserProfile.
func (u *User) Profile() UserProfile {
	return UserProfile{
		NomeFuncionario: u.NomeFuncionario,
		NumeroMatricula: u.NumeroMatricula,
		CodigoUnidade:   u.CodigoUnidade,
		Email:           u.Email,
	}
}
