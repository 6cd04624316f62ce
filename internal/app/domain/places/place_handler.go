package places

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/common"
	"github.com/ngandinhtk/tripwise/internal/app/models"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Search handles GET /api/v1/places.
func (h *Handler) Search(c *gin.Context) {
	ctx, span := otel.Tracer("PlaceHandler").Start(c.Request.Context(), "Search")
	defer span.End()

	var filter models.PlaceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		common.BindError(c, err)
		return
	}

	results, err := h.service.Search(ctx, filter)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": results, "count": len(results)})
}

// GetByID handles GET /api/v1/places/:placeID.
func (h *Handler) GetByID(c *gin.Context) {
	ctx, span := otel.Tracer("PlaceHandler").Start(c.Request.Context(), "GetByID")
	defer span.End()

	placeID, err := uuid.Parse(c.Param("placeID"))
	if err != nil {
		common.ErrorResponse(c, fmt.Errorf("invalid placeID: %w", models.ErrBadRequest))
		return
	}

	place, err := h.service.GetByID(ctx, placeID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// ListCountries handles GET /api/v1/countries.
func (h *Handler) ListCountries(c *gin.Context) {
	ctx, span := otel.Tracer("PlaceHandler").Start(c.Request.Context(), "ListCountries")
	defer span.End()

	countries, err := h.service.ListCountries(ctx)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries, "count": len(countries)})
}
