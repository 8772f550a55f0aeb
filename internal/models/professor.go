package models

import "encoding/json"

// Professor is a staff record keyed by its externally assigned matricula.
type Professor struct {
	Matricula      NullInt  `db:"matricula" json:"matricula"`
	NomeProfessor  NullText `db:"nome_professor" json:"nomeProfessor"`
	StatusSituacao NullInt  `db:"status_situacao" json:"statusSituacao"`
	RegimeJuridico NullText `db:"regime_juridico" json:"regimeJuridico"`
	CargaHoraria   NullText `db:"carga_horaria" json:"cargaHoraria"`
	HoraAtividade  NullInt  `db:"hora_atividade" json:"horaAtividade"`
	HAEO           NullText `db:"hae_o" json:"HAE_O"`
	HAEC           NullText `db:"hae_c" json:"HAE_C"`
	ObsManha       NullText `db:"obs_manha" json:"obsManha"`
	ObsTarde       NullText `db:"obs_tarde" json:"obsTarde"`
	ObsNoite       NullText `db:"obs_noite" json:"obsNoite"`
	DataInclusao   string   `db:"data_inclusao" json:"dataInclusao"`
}

// ProfessorFields lists every key a professor payload must carry, in reporting order.
var ProfessorFields = []string{
	"matricula", "nomeProfessor", "statusSituacao", "regimeJuridico",
	"cargaHoraria", "horaAtividade", "HAE_O", "HAE_C",
	"obsManha", "obsTarde", "obsNoite",
}

// professorNotNull are the keys that may be present but must not be null.
var professorNotNull = map[string]bool{
	"matricula":      true,
	"nomeProfessor":  true,
	"statusSituacao": true,
}

// ProfessorFromFields decodes a professor from its raw payload keys. It returns the names
// of missing keys, or when none are missing, the names of keys whose values could not be
// used. Both lists follow ProfessorFields order.
func ProfessorFromFields(fields map[string]json.RawMessage) (p *Professor, missing, invalid []string) {
	for _, name := range ProfessorFields {
		if _, ok := fields[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, missing, nil
	}

	p = &Professor{}
	targets := map[string]json.Unmarshaler{
		"matricula":      &p.Matricula,
		"nomeProfessor":  &p.NomeProfessor,
		"statusSituacao": &p.StatusSituacao,
		"regimeJuridico": &p.RegimeJuridico,
		"cargaHoraria":   &p.CargaHoraria,
		"horaAtividade":  &p.HoraAtividade,
		"HAE_O":          &p.HAEO,
		"HAE_C":          &p.HAEC,
		"obsManha":       &p.ObsManha,
		"obsTarde":       &p.ObsTarde,
		"obsNoite":       &p.ObsNoite,
	}
	for _, name := range ProfessorFields {
		if err := targets[name].UnmarshalJSON(fields[name]); err != nil {
			invalid = append(invalid, name)
			continue
		}
		if professorNotNull[name] && isNull(targets[name]) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, nil, invalid
	}
	return p, nil, nil
}

func isNull(v json.Unmarshaler) bool {
	switch t := v.(type) {
	case *NullInt:
		return !t.Valid
	case *NullText:
		return !t.Valid
	}
	return false
}

// ProfessorSummary is the projection exposed by the listing endpoint.
type ProfessorSummary struct {
	Matricula     int64  `db:"matricula" json:"matricula"`
	NomeProfessor string `db:"nome_professor" json:"nomeProfessor"`
	Status        int64  `db:"status_situacao" json:"status"`
}

// Sort keys accepted by the professor listing.
const (
	ProfessorSortMatricula = "matricula"
	ProfessorSortNome      = "nomeProfessor"
	ProfessorSortStatus    = "status"
)

// ProfessorFilter captures paging and ordering for listing professors.
type ProfessorFilter struct {
	Page       int
	PageSize   int
	SortBy     string
	Descending bool
}
