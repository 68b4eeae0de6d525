package seed

import (
	"context"
	"fmt"

	"staybook/internal/domain"
	cityrepo "staybook/internal/repository/city"
	hotelrepo "staybook/internal/repository/hotel"
	roomrepo "staybook/internal/repository/room"

	"github.com/jackc/pgx/v5/pgxpool"
)

type hotelSeed struct {
	City       string
	Country    string
	Name       string
	Desc       string
	StarRating int
	Amenities  []domain.Amenity
	Rooms      []roomSeed
}

type roomSeed struct {
	Type        domain.RoomType
	Number      string
	NightCents  int64
	MaxAdults   int
	MaxChildren int
	Quantity    int
}

// Apply inserts demo catalog data for manual testing. Idempotent via the
// repositories' upserts.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	cities := cityrepo.NewPostgres(pool)
	hotels := hotelrepo.NewPostgres(pool, nil)
	rooms := roomrepo.NewPostgres(pool, nil)

	seeds := []hotelSeed{
		{
			City: "Berlin", Country: "Germany",
			Name: "Spree Garden Hotel", Desc: "Riverside hotel near Museum Island",
			StarRating: 4,
			Amenities:  []domain.Amenity{domain.AmenityWifi, domain.AmenityGym, domain.AmenityBar},
			Rooms: []roomSeed{
				{Type: domain.RoomTypeDouble, Number: "101", NightCents: 12900, MaxAdults: 2, MaxChildren: 1, Quantity: 8},
				{Type: domain.RoomTypeSuite, Number: "501", NightCents: 28900, MaxAdults: 3, MaxChildren: 2, Quantity: 2},
			},
		},
		{
			City: "Berlin", Country: "Germany",
			Name: "Kreuzberg Lofts", Desc: "Compact rooms in the heart of Kreuzberg",
			StarRating: 3,
			Amenities:  []domain.Amenity{domain.AmenityWifi, domain.AmenityParking},
			Rooms: []roomSeed{
				{Type: domain.RoomTypeSingle, Number: "1", NightCents: 7400, MaxAdults: 1, Quantity: 12},
				{Type: domain.RoomTypeFamily, Number: "7", NightCents: 15900, MaxAdults: 2, MaxChildren: 3, Quantity: 4},
			},
		},
		{
			City: "Lisbon", Country: "Portugal",
			Name: "Alfama Vista", Desc: "Hilltop views over the old town",
			StarRating: 5,
			Amenities:  []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenitySpa, domain.AmenityRestaurant},
			Rooms: []roomSeed{
				{Type: domain.RoomTypeDeluxe, Number: "21", NightCents: 31900, MaxAdults: 2, MaxChildren: 2, Quantity: 6},
				{Type: domain.RoomTypeTwin, Number: "12", NightCents: 16400, MaxAdults: 2, Quantity: 10},
			},
		},
	}

	for _, s := range seeds {
		city, err := cities.Ensure(ctx, s.City, s.Country)
		if err != nil {
			return fmt.Errorf("ensure city %s: %w", s.City, err)
		}
		hotel, err := hotels.Upsert(ctx, domain.Hotel{
			CityID:      city.ID,
			Name:        s.Name,
			Description: s.Desc,
			StarRating:  s.StarRating,
			Amenities:   s.Amenities,
			IsActive:    true,
		})
		if err != nil {
			return fmt.Errorf("upsert hotel %s: %w", s.Name, err)
		}
		for _, r := range s.Rooms {
			if _, err := rooms.Upsert(ctx, domain.Room{
				HotelID:            hotel.ID,
				RoomNumber:         r.Number,
				Type:               r.Type,
				PricePerNightCents: r.NightCents,
				MaxAdults:          r.MaxAdults,
				MaxChildren:        r.MaxChildren,
				Quantity:           r.Quantity,
			}); err != nil {
				return fmt.Errorf("upsert room %s/%s: %w", s.Name, r.Number, err)
			}
		}
	}
	return nil
}
