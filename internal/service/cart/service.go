package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/domain"
	cartrepo "staybook/internal/repository/cart"

	"go.uber.org/zap"
)

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, in cartrepo.AddItemInput) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
}

type roomRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
}

type availabilityChecker interface {
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
}

type Service struct {
	repo         cartRepo
	rooms        roomRepo
	availability availabilityChecker
	logger       *zap.Logger
}

func New(repo cartrepo.Repository, rooms roomRepo, availability availabilityChecker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, rooms: rooms, availability: availability, logger: logger}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first use.
func (s *Service) GetOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// GetCart returns the cart enriched with room and hotel display data.
// A user with no cart gets domain.ErrNotFound, distinct from an empty cart.
func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: cart", domain.ErrNotFound)
		}
		return nil, err
	}
	return cart, nil
}

// AddItem stages a room over a stay window. The price is snapshotted at add
// time as price per night times nights. The availability check here is
// optimistic; checkout re-validates under lock.
func (s *Service) AddItem(ctx context.Context, userID, roomID string, checkIn, checkOut time.Time) (*domain.Cart, error) {
	if err := domain.ValidateRange(checkIn, checkOut); err != nil {
		return nil, fmt.Errorf("%w: check-in date must be before check-out date", err)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: room %s", domain.ErrNotFound, roomID)
		}
		return nil, err
	}

	available, err := s.availability.IsRoomAvailable(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, fmt.Errorf("%w: room %s for the selected dates", domain.ErrNoCapacity, roomID)
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	nights := domain.Nights(checkIn, checkOut)
	if err := s.repo.AddItem(ctx, cart.ID, cartrepo.AddItemInput{
		RoomID:     roomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		PriceCents: room.PricePerNightCents * int64(nights),
	}); err != nil {
		return nil, err
	}

	s.logger.Info("cart item added",
		zap.String("user_id", userID),
		zap.String("room_id", roomID),
		zap.Int("nights", nights),
	)
	return s.repo.GetByUser(ctx, userID)
}

// RemoveItem drops the item from the user's cart. Removing an absent item
// is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.GetByUser(ctx, userID)
}
