package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/subastando/auction-api/internal/auction/domain"
)

// ProfileRepository implements domain.ProfileRepository for PostgreSQL.
// Profile ids come from the external identity provider; rows are created by
// its sync, so there is no Create here.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, email, full_name, anonymous, created_at, updated_at FROM profiles WHERE id = $1`
	p := &domain.Profile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Email, &p.FullName, &p.Anonymous, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET full_name = $2, anonymous = $3, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, p.ID, p.FullName, p.Anonymous)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
