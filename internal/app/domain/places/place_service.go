package places

import (
	"context"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

const countriesCacheKey = "countries"

type Service interface {
	Search(ctx context.Context, filter models.PlaceFilter) ([]*models.Place, error)
	GetByID(ctx context.Context, placeID uuid.UUID) (*models.Place, error)
	ListCountries(ctx context.Context) ([]*models.Country, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewServiceImpl(repo Repository, c *cache.Cache, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  c,
	}
}

func (s *ServiceImpl) Search(ctx context.Context, filter models.PlaceFilter) ([]*models.Place, error) {
	return s.repo.Search(ctx, filter)
}

func (s *ServiceImpl) GetByID(ctx context.Context, placeID uuid.UUID) (*models.Place, error) {
	return s.repo.GetByID(ctx, placeID)
}

// ListCountries serves the country picker. The table is reference data, so
// results are cached.
func (s *ServiceImpl) ListCountries(ctx context.Context) ([]*models.Country, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "ListCountries")
	defer span.End()

	if cached, found := s.cache.Get(countriesCacheKey); found {
		if countries, ok := cached.([]*models.Country); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			span.SetStatus(codes.Ok, "Countries served from cache")
			return countries, nil
		}
	}

	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Country list failed")
		return nil, err
	}

	s.cache.Set(countriesCacheKey, countries, cache.DefaultExpiration)
	span.SetAttributes(attribute.Bool("cache.hit", false))
	span.SetStatus(codes.Ok, "Countries listed")
	return countries, nil
}
