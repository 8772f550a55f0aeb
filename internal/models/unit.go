package models

// Unit is an organizational site (unidade). Its code is assigned by the caller.
type Unit struct {
	Codigo             int64  `db:"codigo_unidade" json:"codigoUnidade"`
	Nome               string `db:"nome_unidade" json:"nomeUnidadeFatec"`
	DenominacaoOficial string `db:"denominacao_oficial" json:"denominacaoOficial"`
	NomeDiretor        string `db:"nome_diretor" json:"nomeDiretor"`
	DataInclusao       string `db:"data_inclusao" json:"dataInclusao"`
}
