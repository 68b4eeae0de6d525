package domain

import "time"

// Stay windows are half-open intervals [checkIn, checkOut): a checkout on
// day N does not block a check-in on day N for the same unit.

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Every overlap decision in the system goes
// through this predicate or its SQL rendition
// (check_in < $checkOut AND $checkIn < check_out).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights returns the number of whole days between checkIn and checkOut.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// ValidateRange returns ErrValidation unless checkIn is strictly before checkOut.
func ValidateRange(checkIn, checkOut time.Time) error {
	if !checkIn.Before(checkOut) {
		return ErrValidation
	}
	return nil
}
