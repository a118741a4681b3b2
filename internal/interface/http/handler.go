package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

// Handler wires the HTTP transport to the lunar service.
type Handler struct {
	svc    lunar.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc lunar.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Calendar builds the year grid for a location.
func (h *Handler) Calendar(c *gin.Context) {
	var req lunar.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Calendar(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "calendar_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Day returns the tooltip payload for a single day.
func (h *Handler) Day(c *gin.Context) {
	var req lunar.InspectRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	payload, err := h.svc.Inspect(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "inspect_failed"))
		return
	}

	c.JSON(http.StatusOK, payload)
}

// Years lists the selectable years.
func (h *Handler) Years(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"years": h.svc.Years()})
}

// Locations lists the preset locations.
func (h *Handler) Locations(c *gin.Context) {
	presets, err := h.svc.Presets(c.Request.Context())
	if err != nil {
		abortWithError(c, domainError(err, "locations_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": presets})
}

type placeQuery struct {
	Latitude  float64 `form:"lat"`
	Longitude float64 `form:"lng"`
}

// Place reverse-geocodes coordinates into a display name.
func (h *Handler) Place(c *gin.Context) {
	var q placeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	place, err := h.svc.Place(c.Request.Context(), lunar.Location{Latitude: q.Latitude, Longitude: q.Longitude})
	if err != nil {
		abortWithError(c, domainError(err, "place_failed"))
		return
	}
	c.JSON(http.StatusOK, place)
}
