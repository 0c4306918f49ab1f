package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svaraband/storefront/internal/domain"
)

// memStore is an in-memory domain.CartStore for tests.
type memStore struct {
	lines      []domain.CartLine
	nextID     int
	failInsert bool
	failList   bool
}

func (m *memStore) List(context.Context) ([]domain.CartLine, error) {
	if m.failList {
		return nil, errors.New("list failed")
	}
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *memStore) Insert(_ context.Context, line *domain.CartLine) error {
	if m.failInsert {
		return errors.New("insert failed")
	}
	if line.ID == "" {
		m.nextID++
		line.ID = fmt.Sprintf("line-%d", m.nextID)
	}
	m.lines = append(m.lines, *line)
	return nil
}

func (m *memStore) UpdateQuantity(_ context.Context, id string, quantity int) error {
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines[i].Quantity = quantity
			return nil
		}
	}
	return errors.New("no such line")
}

func (m *memStore) Delete(_ context.Context, id string) error {
	for i := range m.lines {
		if m.lines[i].ID == id {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return nil
		}
	}
	return errors.New("no such line")
}

func (m *memStore) DeleteAll(context.Context) error {
	m.lines = nil
	return nil
}

func guitar() domain.Product {
	return domain.Product{
		ID:       1,
		Name:     "American Ultra II Stratocaster",
		Brand:    "Fender",
		Model:    "AMULTRA2-STRAT",
		Price:    2199.99,
		Rating:   4.9,
		Category: domain.CategoryElectricGuitar,
	}
}

func amp() domain.Product {
	return domain.Product{
		ID:       8,
		Name:     "DSL40CR",
		Brand:    "Marshall",
		Model:    "DSL40CR",
		Price:    649,
		Rating:   4.7,
		Category: domain.CategoryAmplifier,
	}
}

func TestCartAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("NewLine", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{Color: "Red"})

		lines := uc.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 1, lines[0].ProductID)
		assert.Equal(t, "Red", lines[0].Color)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.NotEmpty(t, lines[0].ID)
	})

	t.Run("DefaultColor", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{})

		require.Len(t, uc.Lines(), 1)
		assert.Equal(t, DefaultColor, uc.Lines()[0].Color)
	})

	t.Run("SameConfigurationIncrements", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{Color: "Black", Extras: []string{"Tuner", "Hard Case"}})
		uc.Add(ctx, guitar(), AddOptions{Color: "Black", Extras: []string{"Hard Case", "Tuner"}})

		lines := uc.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("DifferentColorIsNewLine", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{Color: "Black"})
		uc.Add(ctx, guitar(), AddOptions{Color: "White"})

		assert.Len(t, uc.Lines(), 2)
	})

	t.Run("DifferentExtrasIsNewLine", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{Extras: []string{"Tuner"}})
		uc.Add(ctx, guitar(), AddOptions{Extras: []string{"Hard Case"}})

		assert.Len(t, uc.Lines(), 2)
	})

	t.Run("InsertFailureDropsLine", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{failInsert: true})
		uc.Add(ctx, guitar(), AddOptions{})

		assert.Empty(t, uc.Lines())
		assert.Zero(t, uc.ItemCount())
	})
}

func TestCartSetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("Update", func(t *testing.T) {
		store := &memStore{}
		uc := NewCartUC(ctx, store)
		uc.Add(ctx, guitar(), AddOptions{})
		id := uc.Lines()[0].ID

		uc.SetQuantity(ctx, id, 5)

		assert.Equal(t, 5, uc.Lines()[0].Quantity)
		assert.Equal(t, 5, store.lines[0].Quantity)
	})

	t.Run("ZeroRemoves", func(t *testing.T) {
		store := &memStore{}
		uc := NewCartUC(ctx, store)
		uc.Add(ctx, guitar(), AddOptions{})
		id := uc.Lines()[0].ID

		uc.SetQuantity(ctx, id, 0)

		assert.Empty(t, uc.Lines())
		assert.Empty(t, store.lines)
	})

	t.Run("NegativeRemoves", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.Add(ctx, guitar(), AddOptions{})
		uc.SetQuantity(ctx, uc.Lines()[0].ID, -3)

		assert.Empty(t, uc.Lines())
	})
}

func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := NewCartUC(ctx, store)
	uc.Add(ctx, guitar(), AddOptions{})
	uc.Add(ctx, amp(), AddOptions{})

	uc.Remove(ctx, "no-such-id")
	assert.Len(t, uc.Lines(), 2)

	uc.Remove(ctx, uc.Lines()[0].ID)
	require.Len(t, uc.Lines(), 1)
	assert.Equal(t, 8, uc.Lines()[0].ProductID)
	assert.Len(t, store.lines, 1)
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	uc := NewCartUC(ctx, store)
	uc.Add(ctx, guitar(), AddOptions{})
	uc.Add(ctx, amp(), AddOptions{})

	uc.Clear(ctx)

	assert.Empty(t, uc.Lines())
	assert.Empty(t, store.lines)
	assert.Zero(t, uc.Total())
}

func TestCartTotals(t *testing.T) {
	ctx := context.Background()
	uc := NewCartUC(ctx, &memStore{})
	uc.Add(ctx, guitar(), AddOptions{})
	uc.Add(ctx, amp(), AddOptions{})
	uc.SetQuantity(ctx, uc.Lines()[1].ID, 2)

	assert.InDelta(t, 2199.99+2*649, uc.Total(), 1e-9)
	assert.Equal(t, 3, uc.ItemCount())
	assert.True(t, uc.Contains(1))
	assert.True(t, uc.Contains(8))
	assert.False(t, uc.Contains(99))
}

func TestCartLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingLines", func(t *testing.T) {
		store := &memStore{}
		seed := NewCartUC(ctx, store)
		seed.Add(ctx, guitar(), AddOptions{})

		uc := NewCartUC(ctx, store)
		assert.Len(t, uc.Lines(), 1)
	})

	t.Run("LoadFailureYieldsEmptyCart", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{failList: true})
		assert.Empty(t, uc.Lines())
	})
}

func TestCartMergeLocal(t *testing.T) {
	ctx := context.Background()

	guest := []domain.CartLine{
		{
			ID:           "guest-1",
			ProductID:    1,
			ProductName:  "American Ultra II Stratocaster",
			ProductBrand: "Fender",
			ProductPrice: 2199.99,
			Color:        "Sunburst",
			Extras:       []string{"Hard Case"},
			Quantity:     2,
		},
		{
			ID:           "guest-2",
			ProductID:    8,
			ProductName:  "DSL40CR",
			ProductBrand: "Marshall",
			ProductPrice: 649,
			Color:        "Black",
			Quantity:     1,
		},
	}

	t.Run("IntoEmptyCart", func(t *testing.T) {
		store := &memStore{}
		uc := NewCartUC(ctx, store)
		uc.MergeLocal(ctx, guest)

		lines := uc.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 3, uc.ItemCount())
		for _, l := range lines {
			assert.NotEmpty(t, l.ID)
			assert.NotEqual(t, "guest-1", l.ID)
			assert.NotEqual(t, "guest-2", l.ID)
		}
		assert.Equal(t, "Sunburst", lines[0].Color)
		assert.Equal(t, []string{"Hard Case"}, lines[0].Extras)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("FoldsIntoMatchingRemoteLine", func(t *testing.T) {
		store := &memStore{}
		uc := NewCartUC(ctx, store)
		uc.Add(ctx, guitar(), AddOptions{Color: "Sunburst", Extras: []string{"Hard Case"}})

		uc.MergeLocal(ctx, guest)

		lines := uc.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("SkipsZeroQuantity", func(t *testing.T) {
		uc := NewCartUC(ctx, &memStore{})
		uc.MergeLocal(ctx, []domain.CartLine{{ProductID: 1, Quantity: 0}})

		assert.Empty(t, uc.Lines())
	})
}
