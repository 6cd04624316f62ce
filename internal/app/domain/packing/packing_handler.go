package packing

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

// Add handles POST /api/v1/trips/:tripID/packing.
func (h *Handler) Add(c *gin.Context) {
	ctx, span := otel.Tracer("PackingHandler").Start(c.Request.Context(), "Add")
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

	var in models.CreatePackingItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	item, err := h.service.Add(ctx, userID, tripID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ListForTrip handles GET /api/v1/trips/:tripID/packing.
func (h *Handler) ListForTrip(c *gin.Context) {
	ctx, span := otel.Tracer("PackingHandler").Start(c.Request.Context(), "ListForTrip")
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

	items, err := h.service.ListForTrip(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// TogglePacked handles POST /api/v1/trips/:tripID/packing/:itemID/toggle.
func (h *Handler) TogglePacked(c *gin.Context) {
	ctx, span := otel.Tracer("PackingHandler").Start(c.Request.Context(), "TogglePacked")
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

	item, err := h.service.TogglePacked(ctx, userID, tripID, itemID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/v1/trips/:tripID/packing/:itemID.
func (h *Handler) Delete(c *gin.Context) {
	ctx, span := otel.Tracer("PackingHandler").Start(c.Request.Context(), "Delete")
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

	if err := h.service.Delete(ctx, userID, tripID, itemID); err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Progress handles GET /api/v1/trips/:tripID/packing/progress.
func (h *Handler) Progress(c *gin.Context) {
	ctx, span := otel.Tracer("PackingHandler").Start(c.Request.Context(), "Progress")
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

	progress, err := h.service.Progress(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
