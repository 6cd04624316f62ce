package templates

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

// List handles GET /api/v1/templates.
func (h *Handler) List(c *gin.Context) {
	ctx, span := otel.Tracer("TemplateHandler").Start(c.Request.Context(), "List")
	defer span.End()

	items, err := h.service.List(ctx)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": items, "count": len(items)})
}

// GetByID handles GET /api/v1/templates/:templateID.
func (h *Handler) GetByID(c *gin.Context) {
	ctx, span := otel.Tracer("TemplateHandler").Start(c.Request.Context(), "GetByID")
	defer span.End()

	templateID, err := uuid.Parse(c.Param("templateID"))
	if err != nil {
		common.ErrorResponse(c, fmt.Errorf("invalid templateID: %w", models.ErrBadRequest))
		return
	}

	tpl, err := h.service.GetByID(ctx, templateID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

// Apply handles POST /api/v1/templates/:templateID/apply.
func (h *Handler) Apply(c *gin.Context) {
	ctx, span := otel.Tracer("TemplateHandler").Start(c.Request.Context(), "Apply")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	templateID, err := uuid.Parse(c.Param("templateID"))
	if err != nil {
		common.ErrorResponse(c, fmt.Errorf("invalid templateID: %w", models.ErrBadRequest))
		return
	}

	var in models.ApplyTemplateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	trip, err := h.service.Apply(ctx, userID, templateID, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}
