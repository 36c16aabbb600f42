package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/catalog-stream/internal/catalog"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

// maxLineSize bounds one streamed record.
const maxLineSize = 1 << 20

// Client interface for testability
type Client interface {
	Create(ctx context.Context, rec store.Record) (*store.Record, error)
	Get(ctx context.Context, id string) (*store.Record, error)
	FindByName(ctx context.Context, name string) (*store.Record, error)
	List(ctx context.Context, year *int) ([]store.Record, error)
	Delete(ctx context.Context, id string) error
	StreamRecords(ctx context.Context, fn func(store.Record) error) error
}

type HTTPClient struct {
	httpClient   *http.Client
	streamClient *http.Client
	baseURL      string
	limiter      *rate.Limiter
	retryCount   int
	retryDelay   time.Duration
	logger       *zap.Logger
}

type errorBody struct {
	Error  string               `json:"error"`
	Fields []catalog.FieldError `json:"fields"`
}

func NewClient(baseURL string, ratePerSec float64, timeout, retryDelay time.Duration, retryCount int, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:       100,
		MaxConnsPerHost:    10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		burst := int(ratePerSec * 2)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		// No overall timeout; streams run until cancelled.
		streamClient: &http.Client{Transport: transport},
		baseURL:      baseURL,
		limiter:      limiter,
		retryCount:   retryCount,
		retryDelay:   retryDelay,
		logger:       logger,
	}
}

func (c *HTTPClient) Create(ctx context.Context, rec store.Record) (*store.Record, error) {
	var saved store.Record
	if err := c.do(ctx, http.MethodPost, "/v1/records", rec, false, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *HTTPClient) Get(ctx context.Context, id string) (*store.Record, error) {
	var rec store.Record
	if err := c.do(ctx, http.MethodGet, "/v1/records/"+url.PathEscape(id), nil, true, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) FindByName(ctx context.Context, name string) (*store.Record, error) {
	var rec store.Record
	path := "/v1/records/byName?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, true, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns all records, or only those from year when it is non-nil.
func (c *HTTPClient) List(ctx context.Context, year *int) ([]store.Record, error) {
	path := "/v1/records"
	if year != nil {
		path += "?year=" + strconv.Itoa(*year)
	}
	var recs []store.Record
	if err := c.do(ctx, http.MethodGet, path, nil, true, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/records/"+url.PathEscape(id), nil, true, nil)
}

// StreamRecords calls fn for every record on the server's stream, starting
// with the retained history. It returns nil when the server ends the stream,
// ctx.Err() when ctx is cancelled, or the first error returned by fn.
func (c *HTTPClient) StreamRecords(ctx context.Context, fn func(store.Record) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/records/stream", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("opening stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decodeError(resp.StatusCode, body)
	}

	c.logger.Debug("stream opened", zap.String("url", req.URL.String()))

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec store.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decoding stream record: %w", err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return nil
}

// do sends one API request. 429 responses are always retried; network errors
// and 5xx responses are retried only when idempotent is set.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any, idempotent bool, out any) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	target := c.baseURL + path
	c.logger.Debug("requesting", zap.String("method", method), zap.String("url", target))

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // Exponential backoff
			c.logger.Debug("retrying request", zap.Int("attempt", attempt), zap.Duration("delay", delay))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if !idempotent {
				return fmt.Errorf("executing request: %w", err)
			}
			lastErr = err
			continue
		}

		// Read body before closing for error messages
		respBody, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if readErr != nil {
			lastErr = readErr
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = ErrRateLimited
			continue
		case resp.StatusCode >= 500:
			lastErr = decodeError(resp.StatusCode, respBody)
			if !idempotent {
				return lastErr
			}
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return decodeError(resp.StatusCode, respBody)
		}

		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		apiErr.Message = eb.Error
		apiErr.Fields = eb.Fields
	} else {
		apiErr.Message = string(bytes.TrimSpace(body))
	}
	return apiErr
}
