package behavior

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/common"
	"github.com/ngandinhtk/tripwise/internal/app/models"
	"github.com/ngandinhtk/tripwise/internal/pkg/middleware"
)

var errInvalidLimit = errors.New("limit must be an integer between 1 and 500")

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Track handles POST /api/v1/behaviors.
func (h *Handler) Track(c *gin.Context) {
	ctx, span := otel.Tracer("BehaviorHandler").Start(c.Request.Context(), "Track")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	var in models.TrackBehaviorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	result, err := h.service.Track(ctx, userID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListRecent handles GET /api/v1/behaviors.
func (h *Handler) ListRecent(c *gin.Context) {
	ctx, span := otel.Tracer("BehaviorHandler").Start(c.Request.Context(), "ListRecent")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			common.BindError(c, errInvalidLimit)
			return
		}
		limit = parsed
	}

	behaviors, err := h.service.ListRecent(ctx, userID, limit)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"behaviors": behaviors, "count": len(behaviors)})
}
