package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cursolab/authoring-api/internal/models"
)

const categoriesCacheKey = "categories:list"

type categoryLister interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// CategoryService serves the upstream category list through a read-through
// cache. Categories change rarely; serving them from cache keeps the course
// builder snappy and shields the upstream from per-pageview traffic.
type CategoryService struct {
	upstream categoryLister
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCategoryService constructs the service.
func NewCategoryService(upstream categoryLister, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CategoryService{
		upstream: upstream,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// List returns the category list, preferring the cache.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if hit, err := s.cache.Get(ctx, categoriesCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	start := time.Now()
	categories, err := s.upstream.ListCategories(ctx)
	if s.metrics != nil {
		s.metrics.ObserveUpstreamRequest("categories", time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, categoriesCacheKey, categories, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache categories", zap.Error(err))
	}
	return categories, nil
}
