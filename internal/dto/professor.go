package dto

import "encoding/json"

// ProfessorListParams carries the raw listing parameters after integer parsing.
type ProfessorListParams struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// ProfessorImportResult reports the outcome of one bulk import item. Matricula and Nome
// echo the submitted values verbatim (null when absent).
type ProfessorImportResult struct {
	Matricula json.RawMessage `json:"matricula"`
	Nome      json.RawMessage `json:"nome"`
	Sucesso   bool            `json:"sucesso"`
	Mensagem  string          `json:"mensagem"`
}

// ProfessorExport is a rendered roster file.
type ProfessorExport struct {
	Filename    string
	ContentType string
	Body        []byte
}
