package store

import (
	"context"
	"strconv"
	"time"

	"eduvault/internal/domain"
	"eduvault/internal/utils"

	"github.com/sirupsen/logrus"
)

// CacheTTL bounds how stale a cached read can be
const CacheTTL = 60 * time.Second

// materialsPage is the cached shape of one listing page
type materialsPage struct {
	Items []domain.Material `json:"items"`
	Total int64             `json:"total"`
}

// CachedStore is a read-through Redis cache in front of another Store. Identity records are
// never updated after creation, so lookups by id are safe to cache; material listings are
// invalidated on insert. Cache failures fall back to the inner store.
type CachedStore struct {
	Store
	cache *utils.Cache
}

// NewCachedStore decorates inner with cache
func NewCachedStore(inner Store, cache *utils.Cache) *CachedStore {
	return &CachedStore{Store: inner, cache: cache}
}

func userKey(id string) string { return "user:id:" + id }

func materialsPrefix(owner string) string { return "materials:owner:" + owner + ":" }

func (s *CachedStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var cached domain.User
	if found, err := s.cache.Get(ctx, userKey(id), &cached); err == nil && found {
		return &cached, nil
	} else if err != nil {
		logrus.WithFields(logrus.Fields{"key": userKey(id), "error": err.Error()}).Warn("cache read failed")
	}
	user, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, userKey(id), user, CacheTTL)
	return user, nil
}

func (s *CachedStore) ListMaterials(ctx context.Context, owner string, page Page) ([]domain.Material, int64, error) {
	key := materialsPrefix(owner) + "offset:" + strconv.Itoa(page.Offset) + ":limit:" + strconv.Itoa(page.Limit)
	var cached materialsPage
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached.Items, cached.Total, nil
	}
	items, total, err := s.Store.ListMaterials(ctx, owner, page)
	if err != nil {
		return nil, 0, err
	}
	_ = s.cache.Set(ctx, key, materialsPage{Items: items, Total: total}, CacheTTL)
	return items, total, nil
}

func (s *CachedStore) InsertMaterial(ctx context.Context, m *domain.Material) error {
	if err := s.Store.InsertMaterial(ctx, m); err != nil {
		return err
	}
	if err := s.cache.DeletePrefix(ctx, materialsPrefix(m.UserAddress)); err != nil {
		logrus.WithFields(logrus.Fields{"owner": m.UserAddress, "error": err.Error()}).Warn("cache invalidation failed")
	}
	return nil
}
