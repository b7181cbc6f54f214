package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/internal/domain"
)

func pastel(id int64, price float64) domain.Product {
	return domain.Product{ID: id, Name: "Pastel", Category: "SALGADOS", Price: price, Active: true}
}

func TestAddItemMergesByProductID(t *testing.T) {
	c := Cart{}
	c, err := c.AddItem(pastel(1, 8.5), 2)
	require.NoError(t, err)
	c, err = c.AddItem(pastel(1, 8.5), 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 5, c.TotalCount())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := Cart{}
	_, err := c.AddItem(pastel(1, 8.5), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = c.AddItem(pastel(1, 8.5), -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	c := Cart{}
	c, _ = c.AddItem(pastel(3, 8.5), 1)
	c, _ = c.AddItem(pastel(1, 4.0), 1)
	c, _ = c.AddItem(pastel(2, 6.0), 1)
	c, _ = c.AddItem(pastel(1, 4.0), 1)

	require.Len(t, c.Items, 3)
	assert.Equal(t, int64(3), c.Items[0].Product.ID)
	assert.Equal(t, int64(1), c.Items[1].Product.ID)
	assert.Equal(t, int64(2), c.Items[2].Product.ID)
}

func TestRemoveItem(t *testing.T) {
	c := Cart{}
	c, _ = c.AddItem(pastel(1, 8.5), 2)
	c, _ = c.AddItem(pastel(2, 6.0), 1)

	c = c.RemoveItem(1)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(2), c.Items[0].Product.ID)

	// removing an absent product is a no-op
	c = c.RemoveItem(99)
	assert.Len(t, c.Items, 1)
}

func TestUpdateItemQuantity(t *testing.T) {
	c := Cart{}
	c, _ = c.AddItem(pastel(1, 8.5), 2)

	c = c.UpdateItemQuantity(1, 7)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 7, c.Items[0].Quantity)

	// zero or negative quantity removes the line
	c = c.UpdateItemQuantity(1, 0)
	assert.Empty(t, c.Items)

	c, _ = c.AddItem(pastel(1, 8.5), 2)
	c = c.UpdateItemQuantity(1, -3)
	assert.Empty(t, c.Items)
}

func TestDerivedTotals(t *testing.T) {
	c := Cart{}
	assert.Equal(t, 0.0, c.TotalPrice())
	assert.Equal(t, 0, c.TotalCount())

	c, _ = c.AddItem(pastel(1, 8.5), 2)
	c, _ = c.AddItem(pastel(2, 6.0), 3)

	assert.InDelta(t, 8.5*2+6.0*3, c.TotalPrice(), 1e-9)
	assert.Equal(t, 5, c.TotalCount())

	c = c.UpdateItemQuantity(2, 1)
	assert.InDelta(t, 8.5*2+6.0, c.TotalPrice(), 1e-9)
	assert.Equal(t, 3, c.TotalCount())
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	base := Cart{}
	base, _ = base.AddItem(pastel(1, 8.5), 2)

	_, _ = base.AddItem(pastel(1, 8.5), 3)
	_ = base.UpdateItemQuantity(1, 9)
	_ = base.RemoveItem(1)

	require.Len(t, base.Items, 1)
	assert.Equal(t, 2, base.Items[0].Quantity)
}

func TestUniqueProductInvariantUnderMixedOps(t *testing.T) {
	c := Cart{}
	for i := 0; i < 50; i++ {
		id := int64(i % 5)
		switch i % 4 {
		case 0, 1:
			c, _ = c.AddItem(pastel(id, float64(id)+1), 1)
		case 2:
			c = c.UpdateItemQuantity(id, i%7)
		case 3:
			c = c.RemoveItem(id)
		}
		seen := map[int64]bool{}
		for _, item := range c.Items {
			require.False(t, seen[item.Product.ID], "duplicate line for product %d", item.Product.ID)
			require.Positive(t, item.Quantity)
			seen[item.Product.ID] = true
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := Cart{}
	c, _ = c.AddItem(pastel(2, 6.0), 3)
	c, _ = c.AddItem(pastel(1, 8.5), 1)

	data, err := Encode(c)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, c.Items, got.Items)
}

func TestDecodeEmptyAndMalformed(t *testing.T) {
	c, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, c.Items)

	_, err = Decode([]byte("{not json"))
	assert.Error(t, err)
}
