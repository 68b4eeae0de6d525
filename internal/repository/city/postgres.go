package city

import (
	"context"
	"errors"

	"staybook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.City, error) {
	const q = `
SELECT id::text, name, COALESCE(country, '')
FROM cities
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Country); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.City, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const q = `
SELECT id::text, name, COALESCE(country, '')
FROM cities
WHERE id = $1
`
	var c domain.City
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Country); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Ensure(ctx context.Context, name, country string) (*domain.City, error) {
	const q = `
INSERT INTO cities (name, country)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (name) DO UPDATE SET country = COALESCE(EXCLUDED.country, cities.country)
RETURNING id::text, name, COALESCE(country, '')
`
	var c domain.City
	if err := r.pool.QueryRow(ctx, q, name, country).Scan(&c.ID, &c.Name, &c.Country); err != nil {
		return nil, err
	}
	return &c, nil
}
