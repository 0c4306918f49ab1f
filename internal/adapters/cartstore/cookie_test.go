package cartstore

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svaraband/storefront/internal/domain"
)

var testKey = []byte("test-signing-key")

// roundTrip writes lines through a Cookie store and returns a store reading
// from the cookie the first one set.
func roundTrip(t *testing.T, mutate func(*Cookie)) *Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(New(rec, req, testKey))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[len(cookies)-1])
	return New(httptest.NewRecorder(), next, testKey)
}

func TestCookieRoundTrip(t *testing.T) {
	ctx := context.Background()

	store := roundTrip(t, func(c *Cookie) {
		require.NoError(t, c.Insert(ctx, &domain.CartLine{
			ProductID:    1,
			ProductName:  "American Ultra II Stratocaster",
			ProductBrand: "Fender",
			ProductPrice: 2199.99,
			Color:        "Sunburst",
			Extras:       []string{"Hard Case", "Tuner"},
			Quantity:     2,
		}))
		require.NoError(t, c.Insert(ctx, &domain.CartLine{
			ProductID:    9,
			ProductName:  "SM58 Vocal Microphone",
			ProductBrand: "Shure",
			ProductPrice: 99,
			Color:        "Black",
			Quantity:     1,
		}))
	})

	lines, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.NotEmpty(t, lines[0].ID)
	assert.Equal(t, 1, lines[0].ProductID)
	assert.Equal(t, "Sunburst", lines[0].Color)
	assert.Equal(t, []string{"Hard Case", "Tuner"}, lines[0].Extras)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 9, lines[1].ProductID)
}

func TestCookieUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	var id string
	store := roundTrip(t, func(c *Cookie) {
		line := domain.CartLine{ProductID: 1, ProductPrice: 100, Quantity: 1}
		require.NoError(t, c.Insert(ctx, &line))
		id = line.ID
		require.NoError(t, c.UpdateQuantity(ctx, id, 4))
	})

	lines, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestCookieDelete(t *testing.T) {
	ctx := context.Background()

	store := roundTrip(t, func(c *Cookie) {
		a := domain.CartLine{ProductID: 1, ProductPrice: 100, Quantity: 1}
		b := domain.CartLine{ProductID: 2, ProductPrice: 200, Quantity: 1}
		require.NoError(t, c.Insert(ctx, &a))
		require.NoError(t, c.Insert(ctx, &b))
		require.NoError(t, c.Delete(ctx, a.ID))
	})

	lines, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].ProductID)
}

func TestCookieDeleteAll(t *testing.T) {
	ctx := context.Background()

	store := roundTrip(t, func(c *Cookie) {
		require.NoError(t, c.Insert(ctx, &domain.CartLine{ProductID: 1, ProductPrice: 100, Quantity: 1}))
		require.NoError(t, c.DeleteAll(ctx))
	})

	lines, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCookieMissingIsEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(httptest.NewRecorder(), req, testKey)

	lines, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCookieTamperedIsEmpty(t *testing.T) {
	ctx := context.Background()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := New(rec, req, testKey)
	require.NoError(t, c.Insert(ctx, &domain.CartLine{ProductID: 1, ProductPrice: 100, Quantity: 1}))

	ck := rec.Result().Cookies()[0]

	t.Run("ForgedPayload", func(t *testing.T) {
		forged := *ck
		forged.Value = forged.Value[:len(forged.Value)-4] + "AAAA"

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		next.AddCookie(&forged)
		lines, err := New(httptest.NewRecorder(), next, testKey).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("WrongKey", func(t *testing.T) {
		next := httptest.NewRequest(http.MethodGet, "/", nil)
		next.AddCookie(ck)
		lines, err := New(httptest.NewRecorder(), next, []byte("other-key")).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("Garbage", func(t *testing.T) {
		next := httptest.NewRequest(http.MethodGet, "/", nil)
		next.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-signed-value"})
		lines, err := New(httptest.NewRecorder(), next, testKey).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})
}

func TestCookieCorruptPayloadReported(t *testing.T) {
	// Correctly signed garbage parses the signature but not the JSON; List
	// reports the corruption and the slot reads as empty.
	payload := []byte("{nope")
	ck := &http.Cookie{Name: CookieName, Value: sign(payload, testKey)}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	store := New(httptest.NewRecorder(), req, testKey)

	lines, err := store.List(context.Background())
	assert.Error(t, err)
	assert.Empty(t, lines)
}

func TestSignVerify(t *testing.T) {
	payload := []byte(`[{"product_id":1}]`)
	value := sign(payload, testKey)

	got, ok := verify(value, testKey)
	require.True(t, ok)
	assert.Equal(t, payload, got)

	_, ok = verify(value, []byte("other-key"))
	assert.False(t, ok)

	_, ok = verify("nodot", testKey)
	assert.False(t, ok)

	_, ok = verify("!!!."+base64.RawURLEncoding.EncodeToString(payload), testKey)
	assert.False(t, ok)
}
