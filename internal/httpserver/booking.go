package httpserver

import (
	"net/http"

	"staybook/internal/domain"
	bookingsvc "staybook/internal/service/booking"

	"github.com/gin-gonic/gin"
)

func (h *handlers) checkout(c *gin.Context) {
	var info bookingsvc.ContactInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.deps.BookingSvc.Checkout(c.Request.Context(), userID(c), info)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":          "booking created",
		"bookingId":        booking.ID,
		"bookingReference": booking.Reference,
		"totalCents":       booking.TotalCents,
	})
}

func (h *handlers) getBooking(c *gin.Context) {
	booking, err := h.deps.BookingSvc.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if booking.UserID != userID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *handlers) getBookingByReference(c *gin.Context) {
	booking, err := h.deps.BookingSvc.GetBookingByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if booking.UserID != userID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "booking belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *handlers) listBookings(c *gin.Context) {
	bookings, err := h.deps.BookingSvc.ListUserBookings(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}
