package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/grade-horaria-api/internal/models"
	"github.com/noah-isme/grade-horaria-api/pkg/database"
)

const unitColumns = "codigo_unidade, nome_unidade, denominacao_oficial, nome_diretor, data_inclusao"

// UnitRepository manages persistence for units.
type UnitRepository struct {
	db *sqlx.DB
}

// NewUnitRepository constructs a UnitRepository.
func NewUnitRepository(db *sqlx.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

// List returns every unit ordered by code.
func (r *UnitRepository) List(ctx context.Context) ([]models.Unit, error) {
	units := []models.Unit{}
	if err := r.conn(ctx).SelectContext(ctx, &units, "SELECT "+unitColumns+" FROM unidade ORDER BY codigo_unidade"); err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// FindByCode fetches a unit, returning sql.ErrNoRows when absent.
func (r *UnitRepository) FindByCode(ctx context.Context, code int64) (*models.Unit, error) {
	q := r.conn(ctx)
	var unit models.Unit
	if err := q.GetContext(ctx, &unit, q.Rebind("SELECT "+unitColumns+" FROM unidade WHERE codigo_unidade = ?"), code); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Exists reports whether a unit with the code is registered.
func (r *UnitRepository) Exists(ctx context.Context, code int64) (bool, error) {
	q := r.conn(ctx)
	var exists int
	if err := q.GetContext(ctx, &exists, q.Rebind("SELECT 1 FROM unidade WHERE codigo_unidade = ? LIMIT 1"), code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check unit code: %w", err)
	}
	return true, nil
}

// Create inserts a unit.
func (r *UnitRepository) Create(ctx context.Context, unit *models.Unit) error {
	const query = `INSERT INTO unidade (codigo_unidade, nome_unidade, denominacao_oficial, nome_diretor, data_inclusao)
		VALUES (:codigo_unidade, :nome_unidade, :denominacao_oficial, :nome_diretor, :data_inclusao)`
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}

// Delete removes a unit and returns the number of affected rows.
func (r *UnitRepository) Delete(ctx context.Context, code int64) (int64, error) {
	q := r.conn(ctx)
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM unidade WHERE codigo_unidade = ?"), code)
	if err != nil {
		return 0, fmt.Errorf("delete unit: %w", err)
	}
	return res.RowsAffected()
}
