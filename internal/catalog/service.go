// Package catalog keeps an in-memory snapshot of the product catalog,
// refreshed from the CMS and mirrored into the local database.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/btree"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/talkincode/pedeai/internal/domain"
)

// CategoryOrder is the fixed display order of the storefront sections.
// Categories outside this list are appended after, alphabetically.
var CategoryOrder = []string{"SALGADOS", "DOCES", "ESPECIAIS", "BEBIDAS"}

// Fetcher loads the active catalog from the upstream CMS.
type Fetcher interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
}

// Group is one storefront section with its products sorted by name.
type Group struct {
	Category string           `json:"category"`
	Products []domain.Product `json:"products"`
}

// Service caches products ordered by name and resolves them by id.
type Service struct {
	mu      sync.RWMutex
	fetcher Fetcher
	db      *gorm.DB
	tree    *btree.BTreeG[domain.Product]
	byID    map[int64]domain.Product
}

func productLess(a, b domain.Product) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}

// NewService builds an empty catalog service. Call Refresh to load it;
// db may be nil when no local mirror is wanted.
func NewService(fetcher Fetcher, db *gorm.DB) *Service {
	return &Service{
		fetcher: fetcher,
		db:      db,
		tree:    btree.NewG(8, productLess),
		byID:    map[int64]domain.Product{},
	}
}

// Refresh replaces the cached snapshot with the current CMS catalog and
// mirrors it into the local database. On fetch failure the previous
// snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.fetcher.GetProducts(ctx)
	if err != nil {
		return err
	}

	tree := btree.NewG(8, productLess)
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		tree.ReplaceOrInsert(p)
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.tree = tree
	s.byID = byID
	s.mu.Unlock()

	s.mirror(products)
	zap.L().Info("catalog refreshed", zap.Int("products", len(products)))
	return nil
}

// mirror upserts the snapshot into the local product table so sales can
// snapshot prices even when the CMS is down.
func (s *Service) mirror(products []domain.Product) {
	if s.db == nil {
		return
	}
	for _, p := range products {
		p := p
		var count int64
		s.db.Model(&domain.Product{}).Where("id = ?", p.ID).Count(&count)
		if count == 0 {
			if err := s.db.Create(&p).Error; err != nil {
				zap.L().Error("mirror product failed", zap.Int64("id", p.ID), zap.Error(err))
			}
			continue
		}
		if err := s.db.Save(&p).Error; err != nil {
			zap.L().Error("mirror product failed", zap.Int64("id", p.ID), zap.Error(err))
		}
	}
}

// Get resolves a product by id from the cached snapshot.
func (s *Service) Get(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

// List returns all cached products sorted by name.
func (s *Service) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]domain.Product, 0, s.tree.Len())
	s.tree.Ascend(func(p domain.Product) bool {
		products = append(products, p)
		return true
	})
	return products
}

// Grouped returns the catalog split into sections in display order.
// Empty sections are omitted.
func (s *Service) Grouped() []Group {
	products := s.List()

	byCategory := map[string][]domain.Product{}
	for _, p := range products {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	groups := make([]Group, 0, len(byCategory))
	for _, category := range CategoryOrder {
		if items, ok := byCategory[category]; ok {
			groups = append(groups, Group{Category: category, Products: items})
			delete(byCategory, category)
		}
	}

	rest := make([]string, 0, len(byCategory))
	for category := range byCategory {
		rest = append(rest, category)
	}
	sort.Strings(rest)
	for _, category := range rest {
		groups = append(groups, Group{Category: category, Products: byCategory[category]})
	}
	return groups
}

// Len reports the number of cached products.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Len()
}
