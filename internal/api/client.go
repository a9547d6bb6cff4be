// Package api is the HTTP client for the /foods backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbmrq/gorestaurant/internal/config"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/food"
	"github.com/dbmrq/gorestaurant/internal/logging"
)

// Client is the set of remote operations the synchronizer depends on.
type Client interface {
	// List returns every item in server order.
	List(ctx context.Context) ([]food.Item, error)
	// Create stores a new item built from d and returns it with its
	// server-assigned ID. The item is always created available.
	Create(ctx context.Context, d food.Draft) (food.Item, error)
	// Update replaces the item with it.ID and returns the server's
	// representation.
	Update(ctx context.Context, it food.Item) (food.Item, error)
	// Delete removes the item with the given ID.
	Delete(ctx context.Context, id int) error
}

// RequestIDHeader carries a per-request UUID, echoed in logs on both ends.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept for details.
const maxErrorBody = 1024

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// New creates a client for the backend described by cfg.
func New(cfg config.APIConfig) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	return &HTTPClient{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		UserAgent:  ua,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logging.Global(),
	}
}

// createRequest is the POST body: the draft plus available:true.
type createRequest struct {
	food.Draft
	Available bool `json:"available"`
}

// List fetches GET /foods.
func (c *HTTPClient) List(ctx context.Context) ([]food.Item, error) {
	var items []food.Item
	if err := c.do(ctx, apperrors.OpList, http.MethodGet, "/foods", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []food.Item{}
	}
	return items, nil
}

// Create posts to /foods.
func (c *HTTPClient) Create(ctx context.Context, d food.Draft) (food.Item, error) {
	var created food.Item
	body := createRequest{Draft: d, Available: true}
	if err := c.do(ctx, apperrors.OpCreate, http.MethodPost, "/foods", body, &created); err != nil {
		return food.Item{}, err
	}
	return created, nil
}

// Update puts to /foods/{id}.
func (c *HTTPClient) Update(ctx context.Context, it food.Item) (food.Item, error) {
	var updated food.Item
	path := fmt.Sprintf("/foods/%d", it.ID)
	if err := c.do(logging.WithFoodID(ctx, it.ID), apperrors.OpUpdate, http.MethodPut, path, it, &updated); err != nil {
		return food.Item{}, err
	}
	return updated, nil
}

// Delete sends DELETE /foods/{id}. Any response body is ignored.
func (c *HTTPClient) Delete(ctx context.Context, id int) error {
	path := fmt.Sprintf("/foods/%d", id)
	return c.do(logging.WithFoodID(ctx, id), apperrors.OpDelete, http.MethodDelete, path, nil, nil)
}

// do sends one request. A nil in skips the body; a nil out discards the
// response body.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, in, out any) error {
	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	log := c.logger().WithContext(ctx).With("op", op, "method", method, "path", path)

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrValidation, "failed to encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrConfig, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		log.Error("request failed", "error", err)
		return apperrors.RemoteError(op, c.host(), err).WithDetails("request_id", requestID)
	}
	defer resp.Body.Close()

	log = log.With("status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("backend rejected request")
		return apperrors.RemoteFailure(op, resp.StatusCode, strings.TrimSpace(string(data))).
			WithDetails("request_id", requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Debug("request completed")
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("malformed response", "error", err)
		return apperrors.MalformedResponse(op, err).WithDetails("request_id", requestID)
	}
	log.Debug("request completed")
	return nil
}

func (c *HTTPClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *HTTPClient) logger() *logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Global()
}

func (c *HTTPClient) host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	return u.Host
}
