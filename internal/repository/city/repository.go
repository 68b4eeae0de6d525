package city

import (
	"context"

	"staybook/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.City, error)
	GetByID(ctx context.Context, id string) (*domain.City, error)
	Ensure(ctx context.Context, name, country string) (*domain.City, error)
}
