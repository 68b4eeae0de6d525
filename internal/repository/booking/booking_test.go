package booking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"staybook/internal/domain"
	"staybook/internal/migrate"
	cartrepo "staybook/internal/repository/cart"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateFromCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 2)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkIn.AddDate(0, 0, 2), 28000)
	addItem(ctx, t, carts, "user-1", roomID, checkIn.AddDate(0, 0, 10), checkIn.AddDate(0, 0, 12), 28000)

	booking, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA1"))
	if err != nil {
		t.Fatalf("CreateFromCart: %v", err)
	}
	if booking.Reference != "BK-AAAAA1" || booking.Status != domain.BookingStatusActive {
		t.Fatalf("unexpected booking %+v", booking)
	}
	if len(booking.Items) != 2 || booking.TotalCents != 56000 {
		t.Fatalf("expected 2 items totalling 56000, got %d items totalling %d", len(booking.Items), booking.TotalCents)
	}

	// The cart and its items are gone in the same transaction.
	if _, err := carts.GetByUser(ctx, "user-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected cart deleted, got %v", err)
	}
	var orphans int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items`).Scan(&orphans); err != nil {
		t.Fatalf("count cart_items: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected cart_items cascade-deleted, found %d", orphans)
	}

	fetched, err := repo.GetByReference(ctx, "BK-AAAAA1")
	if err != nil {
		t.Fatalf("GetByReference: %v", err)
	}
	if fetched.ID != booking.ID || len(fetched.Items) != 2 {
		t.Fatalf("fetched mismatch %+v", fetched)
	}
}

func TestPostgres_CreateFromCartEmptyCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	repo := NewPostgres(pool, nil)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA2")); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for missing cart, got %v", err)
	}

	carts := cartrepo.NewPostgres(pool, nil)
	if _, err := carts.GetOrCreate(ctx, "user-1"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA2")); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart for empty cart, got %v", err)
	}
}

func TestPostgres_CreateFromCartRevalidatesCapacity(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 1)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	// Both users carted the last unit; only the first checkout wins.
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkOut, 42000)
	addItem(ctx, t, carts, "user-2", roomID, checkIn.AddDate(0, 0, 2), checkOut.AddDate(0, 0, 2), 42000)

	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA3")); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-2", "BK-AAAAA4")); !errors.Is(err, domain.ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity, got %v", err)
	}

	// The loser's cart survives for another attempt.
	cart, err := carts.GetByUser(ctx, "user-2")
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected losing cart intact, got %+v", cart.Items)
	}

	// Back-to-back stays on the freed boundary are fine.
	if err := carts.RemoveItem(ctx, cart.ID, cart.Items[0].ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	addItem(ctx, t, carts, "user-2", roomID, checkOut, checkOut.AddDate(0, 0, 2), 28000)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-2", "BK-AAAAA5")); err != nil {
		t.Fatalf("back-to-back checkout: %v", err)
	}
}

func TestPostgres_GetByIDMalformedID(t *testing.T) {
	repo := NewPostgres(nil, nil)

	if _, err := repo.GetByID(context.Background(), "abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestPostgres_CapacityDrainsToZero(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 3)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 5, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)

	for i := 1; i <= 3; i++ {
		user := fmt.Sprintf("user-%d", i)
		booked, err := repo.CountOverlapping(ctx, roomID, checkIn, checkOut)
		if err != nil {
			t.Fatalf("CountOverlapping: %v", err)
		}
		if booked != i-1 {
			t.Fatalf("expected %d overlapping items before checkout %d, got %d", i-1, i, booked)
		}
		addItem(ctx, t, carts, user, roomID, checkIn, checkOut, 28000)
		if _, err := repo.CreateFromCart(ctx, checkoutInput(user, fmt.Sprintf("BK-USER%02d", i))); err != nil {
			t.Fatalf("checkout %s: %v", user, err)
		}
	}

	addItem(ctx, t, carts, "user-4", roomID, checkIn.AddDate(0, 0, 1), checkOut.AddDate(0, 0, 1), 28000)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-4", "BK-USER04")); !errors.Is(err, domain.ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity once all units are taken, got %v", err)
	}
}

func TestPostgres_CreateFromCartCountsEarlierItemsOfSameCart(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 1)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkIn.AddDate(0, 0, 3), 42000)
	addItem(ctx, t, carts, "user-1", roomID, checkIn.AddDate(0, 0, 1), checkIn.AddDate(0, 0, 4), 42000)

	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA6")); !errors.Is(err, domain.ErrNoCapacity) {
		t.Fatalf("expected ErrNoCapacity for two overlapping items on the last unit, got %v", err)
	}
}

func TestPostgres_CreateFromCartDuplicateReference(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 5)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkIn.AddDate(0, 0, 2), 28000)
	addItem(ctx, t, carts, "user-2", roomID, checkIn, checkIn.AddDate(0, 0, 2), 28000)

	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-SAME01")); err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-2", "BK-SAME01")); !errors.Is(err, domain.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}
}

func TestPostgres_CountOverlapping(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 5)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkIn.AddDate(0, 0, 3), 42000)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA7")); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	n, err := repo.CountOverlapping(ctx, roomID, checkIn.AddDate(0, 0, 2), checkIn.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("CountOverlapping: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 overlapping item, got %d", n)
	}

	// Half-open windows: a stay starting on the check-out day does not overlap.
	n, err = repo.CountOverlapping(ctx, roomID, checkIn.AddDate(0, 0, 3), checkIn.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("CountOverlapping boundary: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 overlapping items on the boundary, got %d", n)
	}

	byRoom, err := repo.CountOverlappingByRooms(ctx, []string{roomID}, checkIn, checkIn.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CountOverlappingByRooms: %v", err)
	}
	if byRoom[roomID] != 1 {
		t.Fatalf("expected 1 overlapping item for room, got %v", byRoom)
	}
}

func TestPostgres_ListByUser(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	roomID := seedRoom(ctx, t, pool, 5)
	carts := cartrepo.NewPostgres(pool, nil)
	repo := NewPostgres(pool, nil)

	checkIn := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	addItem(ctx, t, carts, "user-1", roomID, checkIn, checkIn.AddDate(0, 0, 2), 28000)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA8")); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	addItem(ctx, t, carts, "user-1", roomID, checkIn.AddDate(0, 0, 5), checkIn.AddDate(0, 0, 7), 28000)
	if _, err := repo.CreateFromCart(ctx, checkoutInput("user-1", "BK-AAAAA9")); err != nil {
		t.Fatalf("second checkout: %v", err)
	}

	bookings, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[0].Reference != "BK-AAAAA9" {
		t.Fatalf("expected newest booking first, got %s", bookings[0].Reference)
	}

	other, err := repo.ListByUser(ctx, "user-9")
	if err != nil {
		t.Fatalf("ListByUser other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no bookings for other user, got %d", len(other))
	}
}

func checkoutInput(userID, reference string) CheckoutInput {
	return CheckoutInput{
		UserID:        userID,
		Reference:     reference,
		ContactName:   "Ada Lovelace",
		ContactPhone:  "+44 20 7946 0000",
		ContactEmail:  "ada@example.com",
		PaymentMethod: "card",
	}
}

func addItem(ctx context.Context, t *testing.T, carts cartrepo.Repository, userID, roomID string, checkIn, checkOut time.Time, priceCents int64) {
	t.Helper()
	cart, err := carts.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if err := carts.AddItem(ctx, cart.ID, cartrepo.AddItemInput{
		RoomID:     roomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		PriceCents: priceCents,
	}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE booking_items, bookings, cart_items, carts, rooms, hotels, cities RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

func seedRoom(ctx context.Context, t *testing.T, pool *pgxpool.Pool, quantity int) string {
	t.Helper()
	var cityID, hotelID, roomID string
	if err := pool.QueryRow(ctx, `INSERT INTO cities (name, country) VALUES ('Berlin', 'Germany') RETURNING id::text`).Scan(&cityID); err != nil {
		t.Fatalf("insert city: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO hotels (city_id, name, star_rating) VALUES ($1, 'Spree Garden Hotel', 4) RETURNING id::text`, cityID).Scan(&hotelID); err != nil {
		t.Fatalf("insert hotel: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO rooms (hotel_id, room_type, room_number, price_per_night_cents, max_adults, quantity) VALUES ($1, 'double', '201', 14000, 2, $2) RETURNING id::text`, hotelID, quantity).Scan(&roomID); err != nil {
		t.Fatalf("insert room: %v", err)
	}
	return roomID
}
