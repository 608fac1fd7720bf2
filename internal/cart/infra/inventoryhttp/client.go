package inventoryhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dwikikusuma/shoping-cart/internal/cart/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var ErrNotFound = errors.New("inventory: not found")

// StatusError is returned for any non-2xx answer. A 404 also matches
// ErrNotFound.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Client talks to the inventory API: GET /stock/{id} and GET /products/{id}.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		tracer:  otel.Tracer("inventory-client"),
	}
}

func (c *Client) GetStock(ctx context.Context, productID int) (domain.Stock, error) {
	var st domain.Stock
	if err := c.get(ctx, "GetStock", fmt.Sprintf("/stock/%d", productID), &st); err != nil {
		return domain.Stock{}, err
	}
	return st, nil
}

func (c *Client) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "GetProduct", fmt.Sprintf("/products/%d", productID), &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, name, path string, out any) error {
	ctx, span := c.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	url := c.baseURL + path
	span.SetAttributes(attribute.String("http.url", url))

	err := c.do(ctx, url, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
