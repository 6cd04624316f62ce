package insights

import (
	"net/http"

	"github.com/gin-gonic/gin"
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

// ListForUser handles GET /api/v1/insights.
func (h *Handler) ListForUser(c *gin.Context) {
	ctx, span := otel.Tracer("InsightHandler").Start(c.Request.Context(), "ListForUser")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	items, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": items, "count": len(items)})
}

// Recommendations handles GET /api/v1/insights/recommendations.
func (h *Handler) Recommendations(c *gin.Context) {
	ctx, span := otel.Tracer("InsightHandler").Start(c.Request.Context(), "Recommendations")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	recs, err := h.service.Recommendations(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs, "count": len(recs)})
}

// Analyze handles POST /api/v1/insights/analyze. It re-runs both analyzers
// on the user's accumulated history.
func (h *Handler) Analyze(c *gin.Context) {
	ctx, span := otel.Tracer("InsightHandler").Start(c.Request.Context(), "Analyze")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	patterns, err := h.service.AnalyzePatterns(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	generated, err := h.service.GenerateFromFeedback(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patterns_detected":  patterns,
		"insights_generated": generated,
	})
}
