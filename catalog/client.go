package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"rocketcart/model"
)

var (
	// ErrUnavailable covers network failures and non-2xx responses.
	ErrUnavailable = errors.New("catalog unavailable")
	// ErrMalformed covers responses that do not decode into the expected record.
	ErrMalformed = errors.New("catalog response malformed")
)

// Client reads stock and product records from the remote catalog API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("catalog base url is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// stockRecord tells an absent field apart from a zero one.
type stockRecord struct {
	ID     *int64 `json:"id"`
	Amount *int   `json:"amount"`
}

// GetStock fetches GET stock/{id}. A body without an amount, or one that
// names another product, is malformed.
func (c *Client) GetStock(ctx context.Context, productID int64) (model.Stock, error) {
	var rec stockRecord
	if err := c.get(ctx, "stock/"+strconv.FormatInt(productID, 10), &rec); err != nil {
		return model.Stock{}, err
	}
	switch {
	case rec.Amount == nil:
		return model.Stock{}, fmt.Errorf("%w: stock %d has no amount", ErrMalformed, productID)
	case *rec.Amount < 0:
		return model.Stock{}, fmt.Errorf("%w: stock %d has negative amount %d", ErrMalformed, productID, *rec.Amount)
	case rec.ID != nil && *rec.ID != productID:
		return model.Stock{}, fmt.Errorf("%w: asked for stock %d, got %d", ErrMalformed, productID, *rec.ID)
	}
	return model.Stock{ID: productID, Amount: *rec.Amount}, nil
}

// GetProduct fetches GET products/{id}. The returned product has Amount 0.
func (c *Client) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "products/"+strconv.FormatInt(productID, 10), &product); err != nil {
		return model.Product{}, err
	}
	if product.ID != productID {
		return model.Product{}, fmt.Errorf("%w: asked for product %d, got %d", ErrMalformed, productID, product.ID)
	}
	product.Amount = 0
	return product, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("%w: GET %s: %v", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("catalog request",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s: status %d", ErrUnavailable, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrMalformed, path, err)
	}
	return nil
}
