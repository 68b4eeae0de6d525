package search

import (
	"context"
	"testing"
	"time"

	"staybook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHotelRepo struct {
	hotels       []domain.Hotel
	lastLocation string
}

func (s *stubHotelRepo) ListByCity(_ context.Context, location string) ([]domain.Hotel, error) {
	s.lastLocation = location
	return s.hotels, nil
}

type stubBookingRepo struct {
	counts map[string]int
}

func (s *stubBookingRepo) CountOverlappingByRooms(_ context.Context, _ []string, _, _ time.Time) (map[string]int, error) {
	if s.counts == nil {
		return map[string]int{}, nil
	}
	return s.counts, nil
}

func intp(v int) *int       { return &v }
func int64p(v int64) *int64 { return &v }

func window() (time.Time, time.Time) {
	in := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	return in, in.AddDate(0, 0, 3)
}

func berlinHotels() []domain.Hotel {
	return []domain.Hotel{
		{
			ID:         "h1",
			Name:       "Spree Garden Hotel",
			CityName:   "Berlin",
			StarRating: 4,
			IsActive:   true,
			Amenities:  []domain.Amenity{domain.AmenityWifi, domain.AmenityPool, domain.AmenityGym},
			Rooms: []domain.Room{
				{ID: "r1", Type: domain.RoomTypeDouble, PricePerNightCents: 14000, MaxAdults: 2, MaxChildren: 1, Quantity: 5},
				{ID: "r2", Type: domain.RoomTypeSuite, PricePerNightCents: 32000, MaxAdults: 3, MaxChildren: 2, Quantity: 2},
			},
		},
		{
			ID:         "h2",
			Name:       "Kreuzberg Lofts",
			CityName:   "Berlin",
			StarRating: 3,
			IsActive:   true,
			Amenities:  []domain.Amenity{domain.AmenityWifi, domain.AmenityBar},
			Rooms: []domain.Room{
				{ID: "r3", Type: domain.RoomTypeSingle, PricePerNightCents: 8000, MaxAdults: 1, MaxChildren: 0, Quantity: 8},
				{ID: "r4", Type: domain.RoomTypeTwin, PricePerNightCents: 11000, MaxAdults: 2, MaxChildren: 1, Quantity: 4},
			},
		},
	}
}

func search(t *testing.T, hotels []domain.Hotel, counts map[string]int, c Criteria) []Result {
	t.Helper()
	svc := New(&stubHotelRepo{hotels: hotels}, &stubBookingRepo{counts: counts}, nil)
	results, err := svc.SearchHotels(context.Background(), c)
	require.NoError(t, err)
	return results
}

func TestSearchHotelsRequiresLocation(t *testing.T) {
	svc := New(&stubHotelRepo{}, &stubBookingRepo{}, nil)
	in, out := window()

	_, err := svc.SearchHotels(context.Background(), Criteria{Location: "  ", CheckIn: in, CheckOut: out})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchHotelsRejectsInvertedWindow(t *testing.T) {
	svc := New(&stubHotelRepo{}, &stubBookingRepo{}, nil)
	in, out := window()

	_, err := svc.SearchHotels(context.Background(), Criteria{Location: "berlin", CheckIn: out, CheckOut: in})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchHotelsByStarRating(t *testing.T) {
	in, out := window()
	results := search(t, berlinHotels(), nil, Criteria{
		Location:      "berlin",
		CheckIn:       in,
		CheckOut:      out,
		MinStarRating: intp(4),
	})

	require.Len(t, results, 1)
	assert.Equal(t, "Spree Garden Hotel", results[0].Hotel.Name)
}

func TestSearchHotelsByAmenitySubset(t *testing.T) {
	in, out := window()
	results := search(t, berlinHotels(), nil, Criteria{
		Location:  "berlin",
		CheckIn:   in,
		CheckOut:  out,
		Amenities: []domain.Amenity{domain.AmenityWifi, domain.AmenityPool},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0].Hotel.ID)
}

func TestSearchHotelsByRoomType(t *testing.T) {
	in, out := window()
	results := search(t, berlinHotels(), nil, Criteria{
		Location:  "berlin",
		CheckIn:   in,
		CheckOut:  out,
		RoomTypes: []domain.RoomType{domain.RoomTypeSuite, domain.RoomTypeDeluxe},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0].Hotel.ID)
}

func TestSearchHotelsByPriceRange(t *testing.T) {
	in, out := window()

	// Any-room semantics: a hotel matches when one of its rooms falls in
	// the requested band.
	results := search(t, berlinHotels(), nil, Criteria{
		Location:      "berlin",
		CheckIn:       in,
		CheckOut:      out,
		MaxPriceCents: int64p(9000),
	})
	require.Len(t, results, 1)
	assert.Equal(t, "h2", results[0].Hotel.ID)

	results = search(t, berlinHotels(), nil, Criteria{
		Location:      "berlin",
		CheckIn:       in,
		CheckOut:      out,
		MinPriceCents: int64p(30000),
	})
	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0].Hotel.ID)
}

func TestSearchHotelsByCapacity(t *testing.T) {
	in, out := window()

	// One room must fit the whole party; spreading 3 adults over two
	// smaller rooms does not count.
	results := search(t, berlinHotels(), nil, Criteria{
		Location:    "berlin",
		CheckIn:     in,
		CheckOut:    out,
		MinAdults:   intp(3),
		MinChildren: intp(2),
	})
	require.Len(t, results, 1)
	assert.Equal(t, "h1", results[0].Hotel.ID)

	results = search(t, berlinHotels(), nil, Criteria{
		Location:  "berlin",
		CheckIn:   in,
		CheckOut:  out,
		MinAdults: intp(4),
	})
	assert.Empty(t, results)
}

func TestSearchHotelsDateFilterUsesPerRoomRemainingCapacity(t *testing.T) {
	in, out := window()

	// r1 fully booked over the window, r2 still has a unit: the hotel
	// stays visible.
	results := search(t, berlinHotels()[:1], map[string]int{"r1": 5, "r2": 1}, Criteria{
		Location: "berlin",
		CheckIn:  in,
		CheckOut: out,
	})
	require.Len(t, results, 1)

	// Every room exhausted: the hotel drops out.
	results = search(t, berlinHotels()[:1], map[string]int{"r1": 5, "r2": 2}, Criteria{
		Location: "berlin",
		CheckIn:  in,
		CheckOut: out,
	})
	assert.Empty(t, results)
}

func TestSearchHotelsMinNightlyAnnotation(t *testing.T) {
	in, out := window()
	results := search(t, berlinHotels(), nil, Criteria{
		Location: "berlin",
		CheckIn:  in,
		CheckOut: out,
	})

	require.Len(t, results, 2)
	byID := map[string]int64{}
	for _, r := range results {
		byID[r.Hotel.ID] = r.MinNightlyCents
	}
	assert.Equal(t, int64(14000), byID["h1"])
	assert.Equal(t, int64(8000), byID["h2"])
}

func TestSearchHotelsMinNightlyReflectsRoomFilters(t *testing.T) {
	in, out := window()

	// Only the suite qualifies, so the cheaper double must not drive the
	// annotation down.
	results := search(t, berlinHotels(), nil, Criteria{
		Location:  "berlin",
		CheckIn:   in,
		CheckOut:  out,
		RoomTypes: []domain.RoomType{domain.RoomTypeSuite},
	})
	require.Len(t, results, 1)
	assert.Equal(t, int64(32000), results[0].MinNightlyCents)

	// Same with a price floor: the annotation comes from rooms inside the
	// band.
	results = search(t, berlinHotels(), nil, Criteria{
		Location:      "berlin",
		CheckIn:       in,
		CheckOut:      out,
		MinPriceCents: int64p(20000),
	})
	require.Len(t, results, 1)
	assert.Equal(t, int64(32000), results[0].MinNightlyCents)
}

func TestSearchHotelsMinNightlySkipsExhaustedRooms(t *testing.T) {
	in, out := window()

	// The cheap double is fully booked over the window; the suite carries
	// the annotation.
	results := search(t, berlinHotels()[:1], map[string]int{"r1": 5}, Criteria{
		Location: "berlin",
		CheckIn:  in,
		CheckOut: out,
	})
	require.Len(t, results, 1)
	assert.Equal(t, int64(32000), results[0].MinNightlyCents)
}

func TestSearchHotelsFiltersCompose(t *testing.T) {
	in, out := window()
	results := search(t, berlinHotels(), nil, Criteria{
		Location:      "berlin",
		CheckIn:       in,
		CheckOut:      out,
		MinStarRating: intp(3),
		Amenities:     []domain.Amenity{domain.AmenityWifi},
		RoomTypes:     []domain.RoomType{domain.RoomTypeSingle},
	})

	require.Len(t, results, 1)
	assert.Equal(t, "h2", results[0].Hotel.ID)
}

func TestSearchHotelsTrimsLocation(t *testing.T) {
	repo := &stubHotelRepo{}
	svc := New(repo, &stubBookingRepo{}, nil)
	in, out := window()

	_, err := svc.SearchHotels(context.Background(), Criteria{Location: "  berlin  ", CheckIn: in, CheckOut: out})
	require.NoError(t, err)
	assert.Equal(t, "berlin", repo.lastLocation)
}
