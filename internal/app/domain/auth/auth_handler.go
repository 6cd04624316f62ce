package auth

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

// Register handles POST /api/v1/auth/register.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := otel.Tracer("AuthHandler").Start(c.Request.Context(), "Register")
	defer span.End()

	var in models.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	resp, err := h.service.Register(ctx, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("AuthHandler").Start(c.Request.Context(), "Login")
	defer span.End()

	var in models.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		common.BindError(c, err)
		return
	}

	resp, err := h.service.Login(ctx, in)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile handles GET /api/v1/users/me.
func (h *Handler) Profile(c *gin.Context) {
	ctx, span := otel.Tracer("AuthHandler").Start(c.Request.Context(), "Profile")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	user, err := h.service.Profile(ctx, userID)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/v1/users/me.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx, span := otel.Tracer("AuthHandler").Start(c.Request.Context(), "UpdateProfile")
	defer span.End()

	userID, ok := middleware.GetUserID(c)
	if !ok {
		common.ErrorResponse(c, models.ErrUnauthenticated)
		return
	}

	var params models.UpdateProfileParams
	if err := c.ShouldBindJSON(&params); err != nil {
		common.BindError(c, err)
		return
	}

	user, err := h.service.UpdateProfile(ctx, userID, params)
	if err != nil {
		common.ErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
