package dto

// CreateUnitRequest is the payload for registering a unit.
type CreateUnitRequest struct {
	CodigoUnidade      *int64  `json:"codigoUnidade" validate:"required"`
	NomeUnidadeFatec   *string `json:"nomeUnidadeFatec" validate:"required"`
	DenominacaoOficial *string `json:"denominacaoOficial" validate:"required"`
	NomeDiretor        *string `json:"nomeDiretor" validate:"required"`
}
