package hotel

import (
	"context"

	"staybook/internal/domain"
)

type Repository interface {
	// GetByID returns an active hotel with its rooms preloaded.
	GetByID(ctx context.Context, id string) (*domain.Hotel, error)
	// ListByCity returns active hotels whose city name contains the given
	// location (case-insensitive), rooms preloaded.
	ListByCity(ctx context.Context, location string) ([]domain.Hotel, error)
	Upsert(ctx context.Context, hotel domain.Hotel) (*domain.Hotel, error)
}
