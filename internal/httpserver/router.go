package httpserver

import (
	"context"
	"net/http"
	"time"

	"staybook/internal/domain"
	availabilitysvc "staybook/internal/service/availability"
	bookingsvc "staybook/internal/service/booking"
	cartsvc "staybook/internal/service/cart"
	searchsvc "staybook/internal/service/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Deps carries the services the handlers depend on.
type Deps struct {
	CartSvc         *cartsvc.Service
	BookingSvc      *bookingsvc.Service
	AvailabilitySvc *availabilitysvc.Service
	SearchSvc       *searchsvc.Service
	CityRepo        cityLister
	HotelRepo       hotelGetter
}

type cityLister interface {
	List(ctx context.Context) ([]domain.City, error)
}

type hotelGetter interface {
	GetByID(ctx context.Context, id string) (*domain.Hotel, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}

	api := router.Group("/api")
	api.GET("/cities", h.listCities)
	api.GET("/hotels/search", h.searchHotels)
	api.GET("/hotels/:hotelID", h.getHotel)
	api.GET("/hotels/:hotelID/rooms", h.listHotelRooms)
	api.GET("/rooms/:roomID/availability", h.roomAvailability)

	// Cart and booking routes need an authenticated user. Credential
	// verification happens upstream; the gateway forwards the user id.
	user := api.Group("", requireUser())
	user.GET("/cart", h.getCart)
	user.POST("/cart/items", h.addCartItem)
	user.DELETE("/cart/items/:itemID", h.removeCartItem)
	user.POST("/checkout", h.checkout)
	user.GET("/bookings", h.listBookings)
	user.GET("/bookings/:bookingID", h.getBooking)
	user.GET("/bookings/reference/:reference", h.getBookingByReference)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

const userIDHeader = "X-User-ID"

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(userIDHeader) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader(userIDHeader)
}
