package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const uniqueViolation = "23505"

// The half-open overlap condition. Cancelled bookings never block a window.
const overlapCond = `b.status <> 'cancelled' AND bi.check_in < $3 AND $2 < bi.check_out`

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CheckoutInput) (*domain.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var cartID string
	err = tx.QueryRow(ctx, `
SELECT id::text
FROM carts
WHERE user_id = $1
FOR UPDATE
`, in.UserID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmptyCart
		}
		return nil, err
	}

	items, err := cartItems(ctx, tx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	quantities, err := lockRooms(ctx, tx, items)
	if err != nil {
		return nil, err
	}

	// Authoritative capacity check: the add-time check is optimistic, so
	// every line item is re-validated here while the room rows are locked.
	// Earlier items of the same cart count against the window too.
	for i, item := range items {
		var booked int
		err = tx.QueryRow(ctx, `
SELECT COUNT(*)
FROM booking_items bi
JOIN bookings b ON b.id = bi.booking_id
WHERE bi.room_id = $1 AND `+overlapCond+`
`, item.RoomID, item.CheckIn, item.CheckOut).Scan(&booked)
		if err != nil {
			return nil, err
		}
		for _, prev := range items[:i] {
			if prev.RoomID == item.RoomID && domain.Overlaps(prev.CheckIn, prev.CheckOut, item.CheckIn, item.CheckOut) {
				booked++
			}
		}
		if booked >= quantities[item.RoomID] {
			return nil, fmt.Errorf("%w: room %s for %s to %s",
				domain.ErrNoCapacity, item.RoomID,
				item.CheckIn.Format("2006-01-02"), item.CheckOut.Format("2006-01-02"))
		}
	}

	booking := domain.Booking{
		UserID:          in.UserID,
		Reference:       in.Reference,
		Status:          domain.BookingStatusActive,
		ContactName:     in.ContactName,
		ContactPhone:    in.ContactPhone,
		ContactEmail:    in.ContactEmail,
		PaymentMethod:   in.PaymentMethod,
		SpecialRequests: in.SpecialRequests,
	}
	for _, item := range items {
		booking.TotalCents += item.PriceCents
	}

	err = tx.QueryRow(ctx, `
INSERT INTO bookings (user_id, reference, status, total_cents, contact_name, contact_phone, contact_email, payment_method, special_requests)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
RETURNING id::text, created_at
`, in.UserID, in.Reference, booking.Status, booking.TotalCents,
		in.ContactName, in.ContactPhone, in.ContactEmail, in.PaymentMethod, in.SpecialRequests,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateReference
		}
		return nil, err
	}

	for _, item := range items {
		var lineItem domain.BookingItem
		err = tx.QueryRow(ctx, `
INSERT INTO booking_items (booking_id, room_id, check_in, check_out, price_cents)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, booking.ID, item.RoomID, item.CheckIn, item.CheckOut, item.PriceCents).Scan(&lineItem.ID)
		if err != nil {
			return nil, err
		}
		lineItem.BookingID = booking.ID
		lineItem.RoomID = item.RoomID
		lineItem.CheckIn = item.CheckIn
		lineItem.CheckOut = item.CheckOut
		lineItem.PriceCents = item.PriceCents
		booking.Items = append(booking.Items, lineItem)
	}

	// cart_items go with the cart via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("reference", booking.Reference),
		zap.String("user_id", in.UserID),
		zap.Int("items", len(booking.Items)),
		zap.Int64("total_cents", booking.TotalCents),
	)
	return &booking, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	const q = bookingColumns + `
WHERE b.id = $1
`
	return r.fetchBooking(ctx, q, id)
}

func (r *postgresRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	const q = bookingColumns + `
WHERE b.reference = $1
`
	return r.fetchBooking(ctx, q, reference)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	const q = bookingColumns + `
WHERE b.user_id = $1
ORDER BY b.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Error("booking repo: list by user", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range bookings {
		items, err := r.bookingItems(ctx, bookings[i].ID)
		if err != nil {
			return nil, err
		}
		bookings[i].Items = items
	}
	return bookings, nil
}

func (r *postgresRepo) CountOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error) {
	q := `
SELECT COUNT(*)
FROM booking_items bi
JOIN bookings b ON b.id = bi.booking_id
WHERE bi.room_id = $1 AND ` + overlapCond + `
`
	var count int
	if err := r.pool.QueryRow(ctx, q, roomID, checkIn, checkOut).Scan(&count); err != nil {
		r.logger.Error("booking repo: count overlapping", zap.String("room_id", roomID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) CountOverlappingByRooms(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) (map[string]int, error) {
	if len(roomIDs) == 0 {
		return map[string]int{}, nil
	}
	const q = `
SELECT bi.room_id::text, COUNT(*)
FROM booking_items bi
JOIN bookings b ON b.id = bi.booking_id
WHERE bi.room_id = ANY($1) AND b.status <> 'cancelled' AND bi.check_in < $3 AND $2 < bi.check_out
GROUP BY bi.room_id
`
	rows, err := r.pool.Query(ctx, q, roomIDs, checkIn, checkOut)
	if err != nil {
		r.logger.Error("booking repo: count overlapping by rooms", zap.Int("rooms", len(roomIDs)), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int, len(roomIDs))
	for rows.Next() {
		var roomID string
		var count int
		if err := rows.Scan(&roomID, &count); err != nil {
			return nil, err
		}
		result[roomID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const bookingColumns = `
SELECT b.id::text, b.user_id, b.reference, b.status, b.total_cents,
       b.contact_name, b.contact_phone, b.contact_email, b.payment_method,
       COALESCE(b.special_requests, ''), b.created_at
FROM bookings b`

func (r *postgresRepo) fetchBooking(ctx context.Context, query, arg string) (*domain.Booking, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("booking repo: fetch", zap.Error(err))
		return nil, err
	}

	items, err := r.bookingItems(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Items = items
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Reference,
		&b.Status,
		&b.TotalCents,
		&b.ContactName,
		&b.ContactPhone,
		&b.ContactEmail,
		&b.PaymentMethod,
		&b.SpecialRequests,
		&b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) bookingItems(ctx context.Context, bookingID string) ([]domain.BookingItem, error) {
	const q = `
SELECT bi.id::text, bi.booking_id::text, bi.room_id::text, bi.check_in, bi.check_out, bi.price_cents,
       r.room_type, h.name, c.name
FROM booking_items bi
JOIN rooms r ON r.id = bi.room_id
JOIN hotels h ON h.id = r.hotel_id
JOIN cities c ON c.id = h.city_id
WHERE bi.booking_id = $1
ORDER BY bi.check_in ASC, bi.id ASC
`
	rows, err := r.pool.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.BookingItem
	for rows.Next() {
		var item domain.BookingItem
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.RoomID,
			&item.CheckIn,
			&item.CheckOut,
			&item.PriceCents,
			&item.RoomType,
			&item.HotelName,
			&item.HotelCity,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func cartItems(ctx context.Context, tx pgx.Tx, cartID string) ([]domain.CartItem, error) {
	const q = `
SELECT id::text, room_id::text, check_in, check_out, price_cents
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := tx.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ID, &item.RoomID, &item.CheckIn, &item.CheckOut, &item.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// lockRooms takes row locks on every room in the cart, in id order to avoid
// deadlocks between concurrent checkouts, and returns each room's quantity.
func lockRooms(ctx context.Context, tx pgx.Tx, items []domain.CartItem) (map[string]int, error) {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.RoomID]; !ok {
			seen[item.RoomID] = struct{}{}
			ids = append(ids, item.RoomID)
		}
	}

	const q = `
SELECT id::text, quantity
FROM rooms
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE
`
	rows, err := tx.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quantities := make(map[string]int, len(ids))
	for rows.Next() {
		var id string
		var quantity int
		if err := rows.Scan(&id, &quantity); err != nil {
			return nil, err
		}
		quantities[id] = quantity
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(quantities) != len(ids) {
		return nil, fmt.Errorf("%w: room referenced by cart no longer exists", domain.ErrNotFound)
	}
	return quantities, nil
}
