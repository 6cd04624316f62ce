package budget

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

// Record handles POST /api/v1/trips/:tripID/budget.
func (h *Handler) Record(c *gin.Context) {
	ctx, span := otel.Tracer("BudgetHandler").Start(c.Request.Context(), "Record")
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

	var in models.CreateBudgetEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	entry, err := h.service.Record(ctx, userID, tripID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListForTrip handles GET /api/v1/trips/:tripID/budget.
func (h *Handler) ListForTrip(c *gin.Context) {
	ctx, span := otel.Tracer("BudgetHandler").Start(c.Request.Context(), "ListForTrip")
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

	entries, err := h.service.ListForTrip(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// Delete handles DELETE /api/v1/trips/:tripID/budget/:entryID.
func (h *Handler) Delete(c *gin.Context) {
	ctx, span := otel.Tracer("BudgetHandler").Start(c.Request.Context(), "Delete")
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
	entryID, err := pathUUID(c, "entryID")
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	if err := h.service.Delete(ctx, userID, tripID, entryID); err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /api/v1/trips/:tripID/budget/summary.
func (h *Handler) Summary(c *gin.Context) {
	ctx, span := otel.Tracer("BudgetHandler").Start(c.Request.Context(), "Summary")
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

	summary, err := h.service.Summary(ctx, userID, tripID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
