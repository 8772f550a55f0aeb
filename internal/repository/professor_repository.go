package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
)

const professorColumns = "matricula, nome_professor, status_situacao, regime_juridico, carga_horaria, hora_atividade, hae_o, hae_c, obs_manha, obs_tarde, obs_noite, data_inclusao"

// professorSortColumns is the only source of ORDER BY columns for the listing.
var professorSortColumns = map[string]string{
	models.ProfessorSortMatricula: "matricula",
	models.ProfessorSortNome:      "nome_professor",
	models.ProfessorSortStatus:    "status_situacao",
}

// ProfessorRepository manages persistence for professors.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

func (r *ProfessorRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

// List returns one page of professor summaries along with the total row count.
// Rows sharing a sort key come back in whatever order the store yields.
func (r *ProfessorRepository) List(ctx context.Context, filter models.ProfessorFilter) ([]models.ProfessorSummary, int, error) {
	q := r.conn(ctx)

	var total int
	countQuery, _, err := sq.Select("COUNT(*)").From("professor").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build professor count: %w", err)
	}
	if err := q.GetContext(ctx, &total, countQuery); err != nil {
		return nil, 0, fmt.Errorf("count professors: %w", err)
	}

	column, ok := professorSortColumns[filter.SortBy]
	if !ok {
		column = professorSortColumns[models.ProfessorSortNome]
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 50
	}

	query, args, err := sq.Select("matricula", "nome_professor", "status_situacao").
		From("professor").
		OrderBy(column + " " + direction).
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build professor list: %w", err)
	}

	items := []models.ProfessorSummary{}
	if err := q.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list professors: %w", err)
	}
	return items, total, nil
}

// All returns every professor ordered by name.
func (r *ProfessorRepository) All(ctx context.Context) ([]models.Professor, error) {
	items := []models.Professor{}
	if err := r.conn(ctx).SelectContext(ctx, &items, "SELECT "+professorColumns+" FROM professor ORDER BY nome_professor"); err != nil {
		return nil, fmt.Errorf("list all professors: %w", err)
	}
	return items, nil
}

// FindByMatricula fetches a professor, returning sql.ErrNoRows when absent.
func (r *ProfessorRepository) FindByMatricula(ctx context.Context, matricula int64) (*models.Professor, error) {
	q := r.conn(ctx)
	var professor models.Professor
	if err := q.GetContext(ctx, &professor, q.Rebind("SELECT "+professorColumns+" FROM professor WHERE matricula = ?"), matricula); err != nil {
		return nil, err
	}
	return &professor, nil
}

// ExistsByMatricula checks whether the matricula is already registered.
func (r *ProfessorRepository) ExistsByMatricula(ctx context.Context, matricula int64) (bool, error) {
	q := r.conn(ctx)
	var exists int
	if err := q.GetContext(ctx, &exists, q.Rebind("SELECT 1 FROM professor WHERE matricula = ? LIMIT 1"), matricula); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check professor matricula: %w", err)
	}
	return true, nil
}

// Create inserts a professor record.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	const query = `INSERT INTO professor (matricula, nome_professor, status_situacao, regime_juridico, carga_horaria, hora_atividade, hae_o, hae_c, obs_manha, obs_tarde, obs_noite, data_inclusao)
		VALUES (:matricula, :nome_professor, :status_situacao, :regime_juridico, :carga_horaria, :hora_atividade, :hae_o, :hae_c, :obs_manha, :obs_tarde, :obs_noite, :data_inclusao)`
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// Delete removes a professor and returns the number of affected rows.
func (r *ProfessorRepository) Delete(ctx context.Context, matricula int64) (int64, error) {
	q := r.conn(ctx)
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM professor WHERE matricula = ?"), matricula)
	if err != nil {
		return 0, fmt.Errorf("delete professor: %w", err)
	}
	return res.RowsAffected()
}
