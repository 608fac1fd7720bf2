package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dwikikusuma/shoping-cart/internal/cart/app"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/adapter"
	"github.com/dwikikusuma/shoping-cart/internal/cart/infra/kvsnapshot"
	invapp "github.com/dwikikusuma/shoping-cart/internal/inventory/app"
	"github.com/dwikikusuma/shoping-cart/internal/inventory/domain"
	"github.com/dwikikusuma/shoping-cart/pkg/httpx"
	"github.com/dwikikusuma/shoping-cart/pkg/kv"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func newRouter(t *testing.T, ready Pinger) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	newServer(ready).Routes(r)
	return r
}

func newServer(ready Pinger) *Server {
	svc := invapp.NewService([]domain.Record{
		{Product: domain.Product{ID: 1, Title: "Tênis", Price: decimal.RequireFromString("179.9")}, Stock: 2},
		{Product: domain.Product{ID: 5, Title: "Chinelo", Price: decimal.RequireFromString("20")}, Stock: 10},
	})
	store := app.NewStore(context.Background(), kvsnapshot.NewRepo(kv.NewMemory(), ""), adapter.NewInventoryReader(svc))
	return NewServer(store, ready)
}

type response struct {
	Cart []struct {
		ID     int `json:"id"`
		Amount int `json:"amount"`
	} `json:"cart"`
	Result *resultBody `json:"result"`
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var out response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func TestCartFlow(t *testing.T) {
	r := newRouter(t, nil)

	code, out := call(t, r, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out.Cart)

	code, out = call(t, r, http.MethodPost, "/cart/products/1", "")
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, out.Cart, 1)
	assert.Equal(t, "committed", out.Result.Outcome)
	assert.Empty(t, out.Result.Message)

	call(t, r, http.MethodPost, "/cart/products/1", "")
	code, out = call(t, r, http.MethodPost, "/cart/products/1", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, app.MsgStockExceeded, out.Result.Message)
	assert.Equal(t, 2, out.Cart[0].Amount)

	code, out = call(t, r, http.MethodPut, "/cart/products/1", `{"amount":0}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ignored", out.Result.Outcome)

	code, out = call(t, r, http.MethodPut, "/cart/products/5", `{"amount":3}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, app.MsgUpdateFailed, out.Result.Message)

	code, out = call(t, r, http.MethodPost, "/cart/products/99", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, app.MsgAddFailed, out.Result.Message)

	code, out = call(t, r, http.MethodDelete, "/cart/products/1", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out.Cart)

	code, out = call(t, r, http.MethodDelete, "/cart/products/1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, app.MsgRemoveFailed, out.Result.Message)
}

func TestOverflowingProductID(t *testing.T) {
	r := newRouter(t, nil)

	for _, method := range []string{http.MethodPost, http.MethodDelete, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/cart/products/99999999999999999999", strings.NewReader(`{"amount":1}`)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "INVALID_ARGUMENT")
		})
	}

	code, out := call(t, r, http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, out.Cart)
}

func TestIncomingTraceIsContinued(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	r := httpx.NewRouter("cartd", slog.New(slog.NewTextHandler(io.Discard, nil)))
	newServer(nil).Routes(r)

	req := httptest.NewRequest(http.MethodPost, "/cart/products/1", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, span := range sr.Ended() {
		if span.Name() != "AddProduct" {
			continue
		}
		found = true
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", span.SpanContext().TraceID().String())
		assert.True(t, span.Parent().IsValid())
		assert.NotEqual(t, "00f067aa0ba902b7", span.Parent().SpanID().String(), "AddProduct should hang off the server span")
	}
	require.True(t, found, "AddProduct span not recorded")
}

func TestUpdateRequiresAmount(t *testing.T) {
	r := newRouter(t, nil)

	code, _ := call(t, r, http.MethodPut, "/cart/products/1", `{"qty":2}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSummary(t *testing.T) {
	r := newRouter(t, nil)
	call(t, r, http.MethodPost, "/cart/products/5", "")
	call(t, r, http.MethodPut, "/cart/products/5", `{"amount":3}`)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/summary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var s struct {
		Units int    `json:"units"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 3, s.Units)
	assert.Equal(t, "60", s.Total)
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(t, pinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("storage down -> 503", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newRouter(t, pinger{err: errors.New("dial tcp: refused")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[app.Outcome]int{
		app.Committed:     http.StatusOK,
		app.Ignored:       http.StatusOK,
		app.StockExceeded: http.StatusConflict,
		app.NotFound:      http.StatusNotFound,
		app.Failed:        http.StatusBadGateway,
	}
	for outcome, want := range cases {
		t.Run(outcome.String(), func(t *testing.T) {
			assert.Equal(t, want, statusFor(outcome))
		})
	}
}
