// Package availability derives remaining room capacity from committed
// booking line items. There is no persisted per-night ledger: the answer is
// recomputed from overlap counts at call time.
package availability

import (
	"context"
	"fmt"
	"time"

	"staybook/internal/domain"
)

type roomRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	ListByHotel(ctx context.Context, hotelID string) ([]domain.Room, error)
}

type bookingRepo interface {
	CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error)
	CountOverlappingByRooms(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) (map[string]int, error)
}

type Service struct {
	rooms    roomRepo
	bookings bookingRepo
}

func New(rooms roomRepo, bookings bookingRepo) *Service {
	return &Service{rooms: rooms, bookings: bookings}
}

// AvailableQuantity returns the room's remaining units over the window, or
// its full quantity when no window is given. Read-only.
func (s *Service) AvailableQuantity(ctx context.Context, roomID string, checkIn, checkOut *time.Time) (int, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return 0, err
	}
	if checkIn == nil || checkOut == nil {
		return room.Quantity, nil
	}
	if err := domain.ValidateRange(*checkIn, *checkOut); err != nil {
		return 0, fmt.Errorf("%w: check-in date must be before check-out date", err)
	}
	booked, err := s.bookings.CountOverlapping(ctx, roomID, *checkIn, *checkOut)
	if err != nil {
		return 0, err
	}
	return room.Quantity - booked, nil
}

// IsRoomAvailable reports whether the room has at least one remaining unit
// over [checkIn, checkOut).
func (s *Service) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if err := domain.ValidateRange(checkIn, checkOut); err != nil {
		return false, fmt.Errorf("%w: check-in date must be before check-out date", err)
	}
	remaining, err := s.AvailableQuantity(ctx, roomID, &checkIn, &checkOut)
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

// ListHotelRooms returns the hotel's rooms annotated with remaining units
// over the optional window.
func (s *Service) ListHotelRooms(ctx context.Context, hotelID string, checkIn, checkOut *time.Time) ([]domain.RoomAvailability, error) {
	rooms, err := s.rooms.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	booked := map[string]int{}
	if checkIn != nil && checkOut != nil {
		if err := domain.ValidateRange(*checkIn, *checkOut); err != nil {
			return nil, fmt.Errorf("%w: check-in date must be before check-out date", err)
		}
		ids := make([]string, 0, len(rooms))
		for _, rm := range rooms {
			ids = append(ids, rm.ID)
		}
		booked, err = s.bookings.CountOverlappingByRooms(ctx, ids, *checkIn, *checkOut)
		if err != nil {
			return nil, err
		}
	}

	result := make([]domain.RoomAvailability, 0, len(rooms))
	for _, rm := range rooms {
		result = append(result, domain.RoomAvailability{
			Room:              rm,
			AvailableQuantity: rm.Quantity - booked[rm.ID],
		})
	}
	return result, nil
}
