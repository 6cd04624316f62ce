package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/domain/auth"
	"github.com/ngandinhtk/tripwise/internal/app/domain/behavior"
	"github.com/ngandinhtk/tripwise/internal/app/domain/budget"
	"github.com/ngandinhtk/tripwise/internal/app/domain/feedback"
	"github.com/ngandinhtk/tripwise/internal/app/domain/insights"
	"github.com/ngandinhtk/tripwise/internal/app/domain/intelligence"
	"github.com/ngandinhtk/tripwise/internal/app/domain/packing"
	"github.com/ngandinhtk/tripwise/internal/app/domain/places"
	"github.com/ngandinhtk/tripwise/internal/app/domain/preferences"
	"github.com/ngandinhtk/tripwise/internal/app/domain/templates"
	"github.com/ngandinhtk/tripwise/internal/app/domain/trips"
	"github.com/ngandinhtk/tripwise/internal/pkg/config"
	"github.com/ngandinhtk/tripwise/internal/pkg/middleware"
)

// AppHandlers aggregates the HTTP handlers for every domain.
type AppHandlers struct {
	Auth         *auth.Handler
	Behavior     *behavior.Handler
	Feedback     *feedback.Handler
	Preferences  *preferences.Handler
	Insights     *insights.Handler
	Intelligence *intelligence.Handler
	Trips        *trips.Handler
	Budget       *budget.Handler
	Packing      *packing.Handler
	Places       *places.Handler
	Templates    *templates.Handler
}

// Setup wires repositories, services and handlers, then registers all routes.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) {
	h, jwtService := setupDependencies(dbPool, cfg, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	// The place catalogue and template gallery are browsable without a
	// session.
	api.GET("/places", h.Places.Search)
	api.GET("/places/:placeID", h.Places.GetByID)
	api.GET("/countries", h.Places.ListCountries)
	api.GET("/templates", h.Templates.List)
	api.GET("/templates/:templateID", h.Templates.GetByID)

	protected := api.Group("/")
	protected.Use(middleware.RequireAuth(jwtService))
	{
		protected.GET("/users/me", h.Auth.Profile)
		protected.PUT("/users/me", h.Auth.UpdateProfile)

		protected.POST("/behaviors", h.Behavior.Track)
		protected.GET("/behaviors", h.Behavior.ListRecent)

		protected.POST("/feedback", h.Feedback.Submit)
		protected.GET("/feedback", h.Feedback.ListForUser)

		protected.GET("/preferences", h.Preferences.ListForUser)

		protected.GET("/insights", h.Insights.ListForUser)
		protected.GET("/insights/recommendations", h.Insights.Recommendations)
		protected.POST("/insights/analyze", h.Insights.Analyze)

		protected.GET("/intelligence/score", h.Intelligence.Score)

		protected.POST("/trips", h.Trips.CreateTrip)
		protected.GET("/trips", h.Trips.ListTrips)
		protected.GET("/trips/:tripID", h.Trips.GetTrip)
		protected.PUT("/trips/:tripID", h.Trips.UpdateTrip)
		protected.DELETE("/trips/:tripID", h.Trips.DeleteTrip)

		protected.POST("/trips/:tripID/itinerary", h.Trips.AddItineraryItem)
		protected.GET("/trips/:tripID/itinerary", h.Trips.ListItineraryItems)
		protected.PUT("/trips/:tripID/itinerary/:itemID", h.Trips.UpdateItineraryItem)
		protected.DELETE("/trips/:tripID/itinerary/:itemID", h.Trips.DeleteItineraryItem)

		protected.POST("/trips/:tripID/budget", h.Budget.Record)
		protected.GET("/trips/:tripID/budget", h.Budget.ListForTrip)
		protected.GET("/trips/:tripID/budget/summary", h.Budget.Summary)
		protected.DELETE("/trips/:tripID/budget/:entryID", h.Budget.Delete)

		protected.POST("/trips/:tripID/packing", h.Packing.Add)
		protected.GET("/trips/:tripID/packing", h.Packing.ListForTrip)
		protected.GET("/trips/:tripID/packing/progress", h.Packing.Progress)
		protected.POST("/trips/:tripID/packing/:itemID/toggle", h.Packing.TogglePacked)
		protected.DELETE("/trips/:tripID/packing/:itemID", h.Packing.Delete)

		protected.POST("/templates/:templateID/apply", h.Templates.Apply)
	}
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, *auth.JWTService) {
	jwtService := auth.NewJWTService(cfg.Auth)

	authRepo := auth.NewRepositoryImpl(dbPool, log)
	authService := auth.NewServiceImpl(authRepo, jwtService, log)

	behaviorRepo := behavior.NewRepositoryImpl(dbPool, log)
	feedbackRepo := feedback.NewRepositoryImpl(dbPool, log)
	preferenceRepo := preferences.NewRepositoryImpl(dbPool, log)
	insightRepo := insights.NewRepositoryImpl(dbPool, log)
	intelligenceRepo := intelligence.NewRepositoryImpl(dbPool, log)

	insightService := insights.NewService(insightRepo, behaviorRepo, feedbackRepo, cfg.Intelligence, log)
	behaviorService := behavior.NewService(behaviorRepo, insightService, log)
	preferenceService := preferences.NewService(preferenceRepo, log)
	feedbackService := feedback.NewService(feedbackRepo, preferenceService, insightService, log)
	intelligenceService := intelligence.NewService(intelligenceRepo, cfg.Intelligence, log)

	tripRepo := trips.NewRepositoryImpl(dbPool, log)
	tripService := trips.NewServiceImpl(tripRepo, log)

	budgetRepo := budget.NewRepositoryImpl(dbPool, log)
	budgetService := budget.NewServiceImpl(budgetRepo, tripService, log)

	packingRepo := packing.NewRepositoryImpl(dbPool, log)
	packingService := packing.NewServiceImpl(packingRepo, tripService, log)

	placeRepo := places.NewRepositoryImpl(dbPool, log)
	placeCache := cache.New(10*time.Minute, 15*time.Minute)
	placeService := places.NewServiceImpl(placeRepo, placeCache, log)

	templateRepo := templates.NewRepositoryImpl(dbPool, log)
	templateService := templates.NewServiceImpl(templateRepo, tripService, log)

	return &AppHandlers{
		Auth:         auth.NewHandler(authService, log),
		Behavior:     behavior.NewHandler(behaviorService, log),
		Feedback:     feedback.NewHandler(feedbackService, log),
		Preferences:  preferences.NewHandler(preferenceService, log),
		Insights:     insights.NewHandler(insightService, log),
		Intelligence: intelligence.NewHandler(intelligenceService, log),
		Trips:        trips.NewHandler(tripService, log),
		Budget:       budget.NewHandler(budgetService, log),
		Packing:      packing.NewHandler(packingService, log),
		Places:       places.NewHandler(placeService, log),
		Templates:    templates.NewHandler(templateService, log),
	}, jwtService
}
