package domain

import "time"

// RoomType is the category of a room entry.
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeTwin   RoomType = "twin"
	RoomTypeSuite  RoomType = "suite"
	RoomTypeFamily RoomType = "family"
	RoomTypeDeluxe RoomType = "deluxe"
)

// Room describes a class of interchangeable units within a hotel. Quantity is
// the number of identical units; remaining capacity over a window is derived
// from committed booking line items, never stored.
type Room struct {
	ID                 string    `json:"id"`
	HotelID            string    `json:"hotelId"`
	RoomNumber         string    `json:"roomNumber,omitempty"`
	Type               RoomType  `json:"roomType"`
	PricePerNightCents int64     `json:"pricePerNightCents"`
	MaxAdults          int       `json:"maxAdults"`
	MaxChildren        int       `json:"maxChildren"`
	Quantity           int       `json:"quantity"`
	ImageURL           string    `json:"imageUrl,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// RoomAvailability is a room annotated with its remaining units over a
// queried window.
type RoomAvailability struct {
	Room
	AvailableQuantity int `json:"availableQuantity"`
}
