package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/kvsnapshot"
	"github.com/dwikikusuma/shoping-cart/internal/cart/notify"
	invapp "github.com/dwikikusuma/shoping-cart/internal/inventory/app"
	invdomain "github.com/dwikikusuma/shoping-cart/internal/inventory/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/kv"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *invapp.Service {
	t.Helper()
	return invapp.NewService([]invdomain.Record{
		{Product: invdomain.Product{ID: 1, Title: "Tênis de Caminhada", Price: decimal.RequireFromString("179.9"), Image: "https://img/1.jpg"}, Stock: 3},
		{Product: invdomain.Product{ID: 2, Title: "Tênis VR Caminhada", Price: decimal.RequireFromString("139.9"), Image: "https://img/2.jpg"}, Stock: 5},
	})
}

// Every committed mutation is visible to a fresh store opened on the same
// storage.
func TestCart_StateSurvivesReopen(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "storage.json")
	store, err := kv.OpenFile(path)
	require.NoError(t, err)

	inventory := adapter.NewInventoryReader(newCatalog(t))
	var notes notify.Recorder

	cart := app.NewStore(ctx, kvsnapshot.NewRepo(store, ""), inventory, app.WithNotifier(&notes))

	require.Equal(t, app.Committed, cart.AddProduct(ctx, 1).Outcome)
	require.Equal(t, app.Committed, cart.AddProduct(ctx, 2).Outcome)
	require.Equal(t, app.Committed, cart.AddProduct(ctx, 1).Outcome)
	require.Equal(t, app.Committed, cart.UpdateProductAmount(ctx, app.UpdateAmount{ProductID: 2, Amount: 4}).Outcome)
	require.Equal(t, app.StockExceeded, cart.UpdateProductAmount(ctx, app.UpdateAmount{ProductID: 1, Amount: 4}).Outcome)
	require.Empty(t, cmp.Diff([]string{app.MsgStockExceeded}, messages(notes.All())))

	reopened, err := kv.OpenFile(path)
	require.NoError(t, err)
	again := app.NewStore(ctx, kvsnapshot.NewRepo(reopened, ""), inventory)

	if diff := cmp.Diff(cart.Cart(), again.Cart()); diff != "" {
		t.Fatalf("reloaded cart differs (-before +after):\n%s", diff)
	}
	got := again.Cart()
	require.Len(t, got, 2)
	assert.Equal(t, []int{1, 2}, []int{got[0].ID, got[1].ID})
	assert.Equal(t, []int{2, 4}, []int{got[0].Amount, got[1].Amount})

	require.Equal(t, app.Committed, again.RemoveProduct(ctx, 1).Outcome)
	assert.Equal(t, domain.Cart{got[1]}, again.Cart())
}

func TestCart_CorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, kvsnapshot.DefaultKey, "not json"))

	cart := app.NewStore(ctx, kvsnapshot.NewRepo(store, ""), adapter.NewInventoryReader(newCatalog(t)))
	assert.Empty(t, cart.Cart())

	require.Equal(t, app.Committed, cart.AddProduct(ctx, 2).Outcome)

	raw, ok, err := store.Get(ctx, kvsnapshot.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"id":2`)
	assert.Contains(t, raw, `"amount":1`)
}

func TestCart_UnknownProduct(t *testing.T) {
	ctx := context.Background()
	var notes notify.Recorder
	cart := app.NewStore(ctx, kvsnapshot.NewRepo(kv.NewMemory(), ""), adapter.NewInventoryReader(newCatalog(t)), app.WithNotifier(&notes))

	res := cart.AddProduct(ctx, 42)

	assert.Equal(t, app.Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, invapp.ErrNotFound)
	assert.Equal(t, []string{app.MsgAddFailed}, messages(notes.All()))
}

func messages(ns []notify.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}
