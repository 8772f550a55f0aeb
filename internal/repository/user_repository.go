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

const userColumns = "email, numero_matricula, codigo_unidade, nome_funcionario, senha_hash, indicador_ativo, data_inclusao"

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

// FindByEmail fetches a user by normalized email, returning sql.ErrNoRows when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	q := r.conn(ctx)
	var user models.User
	if err := q.GetContext(ctx, &user, q.Rebind("SELECT "+userColumns+" FROM usuario WHERE email = ? LIMIT 1"), email); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether the email is taken.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := r.conn(ctx)
	var exists int
	if err := q.GetContext(ctx, &exists, q.Rebind("SELECT 1 FROM usuario WHERE email = ? LIMIT 1"), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO usuario (email, numero_matricula, codigo_unidade, nome_funcionario, senha_hash, indicador_ativo, data_inclusao)
		VALUES (:email, :numero_matricula, :codigo_unidade, :nome_funcionario, :senha_hash, :indicador_ativo, :data_inclusao)`
	if _, err := r.conn(ctx).NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Delete removes a user and returns the number of affected rows.
func (r *UserRepository) Delete(ctx context.Context, email string) (int64, error) {
	q := r.conn(ctx)
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM usuario WHERE email = ?"), email)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.RowsAffected()
}
