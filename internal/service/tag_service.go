package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/persistence"
	"github.com/spec-kit/content-service/internal/repository"
)

const tagCacheKey = "tags:all"

// TagService serves the tag list read-through from Redis. Cache failures
// fall back to the database; the cache is invalidated whenever articles
// change.
type TagService struct {
	articles repository.ArticleRepository
	cache    *persistence.Redis
	ttl      time.Duration
	logger   *zap.Logger
}

// NewTagService constructs the service.
func NewTagService(articles repository.ArticleRepository, cache *persistence.Redis, ttl time.Duration, logger *zap.Logger) *TagService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TagService{articles: articles, cache: cache, ttl: ttl, logger: logger}
}

// List returns all known tags.
func (s *TagService) List(ctx context.Context) ([]string, error) {
	if s.cache != nil && s.cache.Client != nil {
		cached, err := s.cache.Client.Get(ctx, tagCacheKey).Result()
		if err == nil {
			var tags []string
			if err := json.Unmarshal([]byte(cached), &tags); err == nil {
				return tags, nil
			}
		}
	}

	tags, err := s.articles.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}

	if s.cache != nil && s.cache.Client != nil {
		if payload, err := json.Marshal(tags); err == nil {
			if err := s.cache.Client.Set(ctx, tagCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Debug("tag cache write failed", zap.Error(err))
			}
		}
	}
	return tags, nil
}

// Invalidate drops the cached tag list.
func (s *TagService) Invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, tagCacheKey).Err(); err != nil {
		s.logger.Debug("tag cache invalidation failed", zap.Error(err))
	}
}
