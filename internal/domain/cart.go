package domain

import "time"

// Cart is the per-user staging area for prospective reservations. At most
// one cart exists per user, enforced by a uniqueness constraint on user_id.
type Cart struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	TotalCents int64      `json:"totalCents"`
	CreatedAt  time.Time  `json:"createdAt"`
	Items      []CartItem `json:"items"`
}

// CartItem stages one room over one stay window. PriceCents is snapshotted
// at add time (price per night times nights) and survives later room price
// changes.
type CartItem struct {
	ID         string    `json:"id"`
	CartID     string    `json:"cartId"`
	RoomID     string    `json:"roomId"`
	CheckIn    time.Time `json:"checkInDate"`
	CheckOut   time.Time `json:"checkOutDate"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`

	// Display enrichment, populated on reads only.
	RoomType  RoomType `json:"roomType,omitempty"`
	HotelName string   `json:"hotelName,omitempty"`
	HotelCity string   `json:"hotelCity,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}
