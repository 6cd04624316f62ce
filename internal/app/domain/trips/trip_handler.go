package trips

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/common"
	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/pkg/middleware"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, models.ErrBadRequest)
	}
	return id, nil
}

// CreateTrip handles POST /api/v1/trips.
func (h *Handler) CreateTrip(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "CreateTrip")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	var in models.CreateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	trip, err := h.service.CreateTrip(ctx, userID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/trips.
func (h *Handler) ListTrips(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "ListTrips")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GetTrip handles GET /api/v1/trips/:tripID.
func (h *Handler) GetTrip(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "GetTrip")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	trip, err := h.service.GetTrip(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// UpdateTrip handles PUT /api/v1/trips/:tripID.
func (h *Handler) UpdateTrip(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "UpdateTrip")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	var params models.UpdateTripParams
	if err := c.ShouldBindJSON(&params); err != nil {
		common.BindError(c, err)
		return
	}

	trip, err := h.service.UpdateTrip(ctx, userID, tripID, params)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip handles DELETE /api/v1/trips/:tripID.
func (h *Handler) DeleteTrip(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "DeleteTrip")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	if err := h.service.DeleteTrip(ctx, userID, tripID); err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItineraryItem handles POST /api/v1/trips/:tripID/itinerary.
func (h *Handler) AddItineraryItem(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "AddItineraryItem")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	var in models.CreateItineraryItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	item, err := h.service.AddItineraryItem(ctx, userID, tripID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListItineraryItems handles GET /api/v1/trips/:tripID/itinerary.
func (h *Handler) ListItineraryItems(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "ListItineraryItems")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	items, err := h.service.ListItineraryItems(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// UpdateItineraryItem handles PUT /api/v1/trips/:tripID/itinerary/:itemID.
func (h *Handler) UpdateItineraryItem(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "UpdateItineraryItem")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	itemID, err := pathUUID(c, "itemID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	var params models.UpdateItineraryItemParams
	if err := c.ShouldBindJSON(&params); err != nil {
		common.BindError(c, err)
		return
	}

	item, err := h.service.UpdateItineraryItem(ctx, userID, tripID, itemID, params)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItineraryItem handles DELETE /api/v1/trips/:tripID/itinerary/:itemID.
func (h *Handler) DeleteItineraryItem(c *gin.Context) {
	ctx, span := otel.Tracer("TripHandler").Start(c.Request.Context(), "DeleteItineraryItem")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	tripID, err := pathUUID(c, "tripID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	itemID, err := pathUUID(c, "itemID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	if err := h.service.DeleteItineraryItem(ctx, userID, tripID, itemID); err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
