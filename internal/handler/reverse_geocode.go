package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"geocode-map/internal/models"

	"github.com/gin-gonic/gin"
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service ReverseGeoCodeService
}

// Service interface for dependency injection
type ReverseGeoCodeService interface {
	ReverseGeocode(context.Context, float64, float64) (*models.Candidate, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc ReverseGeoCodeService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

// ReverseGeocode godoc
// @Summary      Reverse geocode a point
// @Description  Returns the first candidate the configured provider knows at the given coordinates.
// @Tags         geocode
// @Produce      json
// @Param        lat  query     number  true  "Latitude"
// @Param        lon  query     number  true  "Longitude"
// @Success      200  {object}  models.Candidate
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /reverse-geocode [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	candidate, err := h.service.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCoordinate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if candidate == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no address found near the specified coordinates"})
		return
	}

	c.JSON(http.StatusOK, candidate)
}
