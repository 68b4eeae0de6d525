// Package search finds hotels matching a set of independent, order-
// insensitive filters. Candidates are narrowed in SQL by city and active
// flag; the remaining predicates compose in memory over the preloaded rooms.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"staybook/internal/domain"

	"go.uber.org/zap"
)

type hotelRepo interface {
	ListByCity(ctx context.Context, location string) ([]domain.Hotel, error)
}

type bookingRepo interface {
	CountOverlappingByRooms(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) (map[string]int, error)
}

// Criteria is the search input. Location and the stay window are required;
// everything else is optional.
type Criteria struct {
	Location      string
	CheckIn       time.Time
	CheckOut      time.Time
	MinPriceCents *int64
	MaxPriceCents *int64
	MinStarRating *int
	Amenities     []domain.Amenity
	RoomTypes     []domain.RoomType
	MinAdults     *int
	MinChildren   *int
	MinRoomCount  *int
}

// Result is a matching hotel with the lowest nightly price among its
// qualifying rooms.
type Result struct {
	Hotel           domain.Hotel `json:"hotel"`
	MinNightlyCents int64        `json:"minNightlyCents"`
}

type Service struct {
	hotels   hotelRepo
	bookings bookingRepo
	logger   *zap.Logger
}

func New(hotels hotelRepo, bookings bookingRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{hotels: hotels, bookings: bookings, logger: logger}
}

// SearchHotels returns active hotels satisfying every supplied filter.
func (s *Service) SearchHotels(ctx context.Context, c Criteria) ([]Result, error) {
	if strings.TrimSpace(c.Location) == "" {
		return nil, fmt.Errorf("%w: location required", domain.ErrValidation)
	}
	if err := domain.ValidateRange(c.CheckIn, c.CheckOut); err != nil {
		return nil, fmt.Errorf("%w: check-in date must be before check-out date", err)
	}

	hotels, err := s.hotels.ListByCity(ctx, strings.TrimSpace(c.Location))
	if err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		s.logger.Info("no hotels matched location", zap.String("location", c.Location))
		return nil, nil
	}

	booked, err := s.overlapCounts(ctx, hotels, c)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, h := range hotels {
		if !matchesHotel(h, c) {
			continue
		}
		qualifying := qualifyingRooms(h.Rooms, c, booked)
		if len(qualifying) == 0 {
			continue
		}
		results = append(results, Result{
			Hotel:           h,
			MinNightlyCents: minNightly(qualifying),
		})
	}
	if len(results) == 0 {
		s.logger.Info("no hotels matched search criteria", zap.String("location", c.Location))
	}
	return results, nil
}

func (s *Service) overlapCounts(ctx context.Context, hotels []domain.Hotel, c Criteria) (map[string]int, error) {
	var roomIDs []string
	for _, h := range hotels {
		for _, rm := range h.Rooms {
			roomIDs = append(roomIDs, rm.ID)
		}
	}
	return s.bookings.CountOverlappingByRooms(ctx, roomIDs, c.CheckIn, c.CheckOut)
}

// matchesHotel applies the hotel-level filters.
func matchesHotel(h domain.Hotel, c Criteria) bool {
	if c.MinStarRating != nil && h.StarRating < *c.MinStarRating {
		return false
	}
	return h.HasAmenities(c.Amenities)
}

// qualifyingRooms keeps the rooms satisfying every room-level filter: type,
// price band, party capacity, and remaining units over the window. The hotel
// matches when at least one room qualifies, and the min-nightly annotation
// is computed over these rooms only. Remaining capacity is per room, not a
// hotel-wide any-overlap exclusion, so a partially booked room type does not
// hide a hotel with spare units.
func qualifyingRooms(rooms []domain.Room, c Criteria, booked map[string]int) []domain.Room {
	var result []domain.Room
	for _, r := range rooms {
		if roomQualifies(r, c, booked) {
			result = append(result, r)
		}
	}
	return result
}

func roomQualifies(r domain.Room, c Criteria, booked map[string]int) bool {
	if c.MinPriceCents != nil && r.PricePerNightCents < *c.MinPriceCents {
		return false
	}
	if c.MaxPriceCents != nil && r.PricePerNightCents > *c.MaxPriceCents {
		return false
	}
	if len(c.RoomTypes) > 0 && !containsType(c.RoomTypes, r.Type) {
		return false
	}
	if c.MinAdults != nil && r.MaxAdults < *c.MinAdults {
		return false
	}
	if c.MinChildren != nil && r.MaxChildren < *c.MinChildren {
		return false
	}
	if c.MinRoomCount != nil && r.Quantity < *c.MinRoomCount {
		return false
	}
	return r.Quantity-booked[r.ID] > 0
}

func containsType(types []domain.RoomType, t domain.RoomType) bool {
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

func minNightly(rooms []domain.Room) int64 {
	var min int64
	for _, r := range rooms {
		if min == 0 || r.PricePerNightCents < min {
			min = r.PricePerNightCents
		}
	}
	return min
}
