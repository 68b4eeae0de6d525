package domain

import "time"

// Amenity is a discrete hotel feature. Stored as a text[] set in Postgres.
type Amenity string

const (
	AmenityWifi       Amenity = "wifi"
	AmenityPool       Amenity = "pool"
	AmenityGym        Amenity = "gym"
	AmenityParking    Amenity = "parking"
	AmenitySpa        Amenity = "spa"
	AmenityRestaurant Amenity = "restaurant"
	AmenityBar        Amenity = "bar"
)

type City struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

type Hotel struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StarRating  int       `json:"starRating"`
	CityID      string    `json:"-"`
	CityName    string    `json:"city"`
	Amenities   []Amenity `json:"amenities,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	Rooms       []Room    `json:"rooms,omitempty"`
}

// HasAmenities reports whether every requested amenity is present on the hotel.
func (h Hotel) HasAmenities(requested []Amenity) bool {
	for _, want := range requested {
		found := false
		for _, have := range h.Amenities {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
