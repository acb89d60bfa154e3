package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-order/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	dishesCacheKey = "menu:dishes"
	offersCacheKey = "menu:offers"
)

type MenuStore interface {
	ListDishes(ctx context.Context) ([]models.Dish, error)
	GetDish(ctx context.Context, id int) (*models.Dish, error)
	ListOffers(ctx context.Context) ([]models.Offer, error)
}

// MenuService serves the read-only catalog, through Redis when configured.
type MenuService struct {
	menu  MenuStore
	cache *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

func NewMenuService(menu MenuStore, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *MenuService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MenuService{
		menu:  menu,
		cache: cache,
		ttl:   ttl,
		log:   logger.With().Str("component", "menu_service").Logger(),
	}
}

func (s *MenuService) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return cached(ctx, s, dishesCacheKey, s.menu.ListDishes)
}

func (s *MenuService) ListOffers(ctx context.Context) ([]models.Offer, error) {
	return cached(ctx, s, offersCacheKey, s.menu.ListOffers)
}

func (s *MenuService) GetDish(ctx context.Context, id int) (*models.Dish, error) {
	if id <= 0 {
		return nil, invalid("invalid dish id")
	}
	dish, err := cached(ctx, s, fmt.Sprintf("menu:dish:%d", id), func(ctx context.Context) (models.Dish, error) {
		d, err := s.menu.GetDish(ctx, id)
		if err != nil {
			return models.Dish{}, err
		}
		return *d, nil
	})
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func cached[T any](ctx context.Context, s *MenuService, key string, load func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			s.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		} else if err != redis.Nil {
			s.log.Warn().Err(err).Str("key", key).Msg("menu cache read failed")
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("menu cache write failed")
			}
		}
	}
	return v, nil
}
