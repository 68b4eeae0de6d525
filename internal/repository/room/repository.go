package room

import (
	"context"

	"staybook/internal/domain"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error)
	Upsert(ctx context.Context, room domain.Room) (*domain.Room, error)
}
