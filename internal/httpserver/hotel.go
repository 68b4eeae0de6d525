package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain"
	searchsvc "staybook/internal/service/search"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listCities(c *gin.Context) {
	cities, err := h.deps.CityRepo.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *handlers) getHotel(c *gin.Context) {
	hotel, err := h.deps.HotelRepo.GetByID(c.Request.Context(), c.Param("hotelID"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, hotel)
}

func (h *handlers) listHotelRooms(c *gin.Context) {
	checkIn, checkOut, err := optionalWindow(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	rooms, err := h.deps.AvailabilitySvc.ListHotelRooms(c.Request.Context(), c.Param("hotelID"), checkIn, checkOut)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *handlers) roomAvailability(c *gin.Context) {
	checkIn, checkOut, err := optionalWindow(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	quantity, err := h.deps.AvailabilitySvc.AvailableQuantity(c.Request.Context(), c.Param("roomID"), checkIn, checkOut)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roomId":            c.Param("roomID"),
		"availableQuantity": quantity,
		"available":         quantity > 0,
	})
}

func (h *handlers) searchHotels(c *gin.Context) {
	criteria, err := parseSearchCriteria(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	results, err := h.deps.SearchSvc.SearchHotels(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if results == nil {
		results = []searchsvc.Result{}
	}
	c.JSON(http.StatusOK, results)
}

func parseSearchCriteria(c *gin.Context) (searchsvc.Criteria, error) {
	checkIn, checkOut, err := parseWindow(c.Query("checkIn"), c.Query("checkOut"))
	if err != nil {
		return searchsvc.Criteria{}, err
	}

	criteria := searchsvc.Criteria{
		Location: c.Query("location"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}
	if criteria.MinPriceCents, err = optionalInt64(c, "minPriceCents"); err != nil {
		return searchsvc.Criteria{}, err
	}
	if criteria.MaxPriceCents, err = optionalInt64(c, "maxPriceCents"); err != nil {
		return searchsvc.Criteria{}, err
	}
	if criteria.MinStarRating, err = optionalInt(c, "minStarRating"); err != nil {
		return searchsvc.Criteria{}, err
	}
	if criteria.MinAdults, err = optionalInt(c, "adults"); err != nil {
		return searchsvc.Criteria{}, err
	}
	if criteria.MinChildren, err = optionalInt(c, "children"); err != nil {
		return searchsvc.Criteria{}, err
	}
	if criteria.MinRoomCount, err = optionalInt(c, "rooms"); err != nil {
		return searchsvc.Criteria{}, err
	}
	for _, a := range splitList(c.Query("amenities")) {
		criteria.Amenities = append(criteria.Amenities, domain.Amenity(strings.ToLower(a)))
	}
	for _, t := range splitList(c.Query("roomTypes")) {
		criteria.RoomTypes = append(criteria.RoomTypes, domain.RoomType(strings.ToLower(t)))
	}
	return criteria, nil
}

func optionalWindow(c *gin.Context) (*time.Time, *time.Time, error) {
	inRaw, outRaw := c.Query("checkIn"), c.Query("checkOut")
	if inRaw == "" && outRaw == "" {
		return nil, nil, nil
	}
	in, out, err := parseWindow(inRaw, outRaw)
	if err != nil {
		return nil, nil, err
	}
	return &in, &out, nil
}

func optionalInt(c *gin.Context, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalidQueryParam(key)
	}
	return &v, nil
}

func optionalInt64(c *gin.Context, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidQueryParam(key)
	}
	return &v, nil
}

func invalidQueryParam(key string) error {
	return fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, key)
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
