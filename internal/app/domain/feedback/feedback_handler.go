package feedback

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

// Submit handles POST /api/v1/feedback.
func (h *Handler) Submit(c *gin.Context) {
	ctx, span := otel.Tracer("FeedbackHandler").Start(c.Request.Context(), "Submit")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	var in models.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	result, err := h.service.Submit(ctx, userID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListForUser handles GET /api/v1/feedback.
func (h *Handler) ListForUser(c *gin.Context) {
	ctx, span := otel.Tracer("FeedbackHandler").Start(c.Request.Context(), "ListForUser")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	feedback, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback, "count": len(feedback)})
}
