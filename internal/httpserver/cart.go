package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"staybook/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type addCartItemRequest struct {
	RoomID   string `json:"roomId" binding:"required"`
	CheckIn  string `json:"checkInDate" binding:"required"`
	CheckOut string `json:"checkOutDate" binding:"required"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.GetOrCreateCart(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseWindow(req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	cart, err := h.deps.CartSvc.AddItem(c.Request.Context(), userID(c), req.RoomID, checkIn, checkOut)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	cart, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), userID(c), c.Param("itemID"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func parseWindow(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkInDate must be YYYY-MM-DD", domain.ErrValidation)
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: checkOutDate must be YYYY-MM-DD", domain.ErrValidation)
	}
	return in, out, nil
}
