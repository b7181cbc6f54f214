package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/internal/domain"
)

type stubFetcher struct {
	products []domain.Product
	err      error
}

func (f *stubFetcher) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func sample() []domain.Product {
	return []domain.Product{
		{ID: 3, Name: "Refrigerante Lata", Category: "BEBIDAS", Price: 6, Active: true},
		{ID: 1, Name: "Pastel de Carne", Category: "SALGADOS", Price: 8.5, Active: true},
		{ID: 2, Name: "Brigadeiro", Category: "DOCES", Price: 4, Active: true},
		{ID: 4, Name: "Coxinha", Category: "SALGADOS", Price: 7, Active: true},
		{ID: 5, Name: "Combo da Casa", Category: "ESPECIAIS", Price: 25, Active: true},
	}
}

func TestRefreshAndGet(t *testing.T) {
	svc := NewService(&stubFetcher{products: sample()}, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, 5, svc.Len())

	p, ok := svc.Get(4)
	require.True(t, ok)
	assert.Equal(t, "Coxinha", p.Name)

	_, ok = svc.Get(99)
	assert.False(t, ok)
}

func TestListSortedByName(t *testing.T) {
	svc := NewService(&stubFetcher{products: sample()}, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	var names []string
	for _, p := range svc.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Brigadeiro", "Combo da Casa", "Coxinha", "Pastel de Carne", "Refrigerante Lata"}, names)
}

func TestGroupedFollowsSectionOrder(t *testing.T) {
	svc := NewService(&stubFetcher{products: sample()}, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	groups := svc.Grouped()
	require.Len(t, groups, 4)
	assert.Equal(t, "SALGADOS", groups[0].Category)
	assert.Equal(t, "DOCES", groups[1].Category)
	assert.Equal(t, "ESPECIAIS", groups[2].Category)
	assert.Equal(t, "BEBIDAS", groups[3].Category)

	// Products within a section keep name order.
	assert.Equal(t, "Coxinha", groups[0].Products[0].Name)
	assert.Equal(t, "Pastel de Carne", groups[0].Products[1].Name)
}

func TestGroupedUnknownCategoryGoesLast(t *testing.T) {
	products := append(sample(), domain.Product{ID: 9, Name: "Item Novo", Category: "PROMO", Price: 1, Active: true})
	svc := NewService(&stubFetcher{products: products}, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	groups := svc.Grouped()
	require.Len(t, groups, 5)
	assert.Equal(t, "PROMO", groups[4].Category)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{products: sample()}
	svc := NewService(fetcher, nil)
	require.NoError(t, svc.Refresh(context.Background()))

	fetcher.err = errors.New("cms down")
	require.Error(t, svc.Refresh(context.Background()))
	assert.Equal(t, 5, svc.Len())
}
