package postgres

import (
	"context"

	"github.com/dafibh/cinelist/cinelist-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Upsert inserts the user if absent and never overwrites an existing row
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (user_id, username, first_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (user_id) DO NOTHING`,
		user.ID, user.Username, user.FirstName,
	)
	return err
}
