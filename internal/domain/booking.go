package domain

import "time"

// Booking lifecycle states. Only cancelled bookings are excluded from
// overlap arithmetic; further workflow states live outside this service.
const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// Booking is an immutable record created atomically at checkout.
type Booking struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Reference       string        `json:"reference"`
	Status          string        `json:"status"`
	TotalCents      int64         `json:"totalCents"`
	ContactName     string        `json:"contactName"`
	ContactPhone    string        `json:"contactPhone"`
	ContactEmail    string        `json:"contactEmail"`
	PaymentMethod   string        `json:"paymentMethod"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	Items           []BookingItem `json:"items"`
}

// BookingItem is a confirmed per-room, per-window component of a booking.
type BookingItem struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"bookingId"`
	RoomID     string    `json:"roomId"`
	CheckIn    time.Time `json:"checkInDate"`
	CheckOut   time.Time `json:"checkOutDate"`
	PriceCents int64     `json:"priceCents"`

	// Display enrichment, populated on reads only.
	RoomType  RoomType `json:"roomType,omitempty"`
	HotelName string   `json:"hotelName,omitempty"`
	HotelCity string   `json:"hotelCity,omitempty"`
}
