package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	var uc QuoteUC

	t.Run("BaseOnly", func(t *testing.T) {
		got, err := uc.Quote(829.99, nil, 1)
		require.NoError(t, err)
		assert.InDelta(t, 829.99, got, 1e-9)
	})

	t.Run("WithExtras", func(t *testing.T) {
		got, err := uc.Quote(829.99, []string{"Hard Case", "Tuner"}, 1)
		require.NoError(t, err)
		assert.InDelta(t, 829.99+2499+899, got, 1e-9)
	})

	t.Run("QuantityMultipliesWholeConfiguration", func(t *testing.T) {
		got, err := uc.Quote(100, []string{"Guitar Strap"}, 3)
		require.NoError(t, err)
		assert.InDelta(t, (100+499)*3, got, 1e-9)
	})

	t.Run("UnknownExtra", func(t *testing.T) {
		_, err := uc.Quote(100, []string{"Gold Plating"}, 1)
		assert.Error(t, err)
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		_, err := uc.Quote(100, nil, 0)
		assert.Error(t, err)
	})

	t.Run("NonPositiveBase", func(t *testing.T) {
		_, err := uc.Quote(0, nil, 1)
		assert.Error(t, err)
	})
}

func TestExtraPrice(t *testing.T) {
	price, ok := ExtraPrice("Hard Case")
	assert.True(t, ok)
	assert.Equal(t, 2499.0, price)

	_, ok = ExtraPrice("hard case")
	assert.False(t, ok)
}

func TestValidColor(t *testing.T) {
	assert.True(t, ValidColor("Sunburst"))
	assert.False(t, ValidColor("Chartreuse"))
	assert.False(t, ValidColor(""))
}
