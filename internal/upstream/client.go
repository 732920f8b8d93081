// Package upstream fetches allocator rows and the audit-history sheet from
// the read-only HTTP APIs the flow graph is built from.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/datacapflow/core/internal/config"
	"github.com/datacapflow/core/internal/observability"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 64 << 20

var ErrUnexpectedStatus = errors.New("unexpected upstream status")

// HTTPClient allows injecting test doubles.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Snapshot is one consistent pair of upstream payloads.
type Snapshot struct {
	AllocatorRows []byte
	AuditSheet    [][]string
}

type Client struct {
	httpClient    HTTPClient
	allocatorsURL string
	auditsURL     string
	limiter       *rate.Limiter
	logger        *zap.Logger
	metrics       *observability.Metrics
}

type Option func(*Client)

func WithHTTPClient(c HTTPClient) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(client *Client) { client.logger = l }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(client *Client) { client.metrics = m }
}

func New(cfg config.UpstreamConfig, opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		allocatorsURL: cfg.AllocatorsURL,
		auditsURL:     cfg.AuditsURL,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAllocators returns the raw allocator rows payload.
func (c *Client) FetchAllocators(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "allocators", c.allocatorsURL)
}

// FetchAuditSheet returns the audit sheet as rows of cells.
func (c *Client) FetchAuditSheet(ctx context.Context) ([][]string, error) {
	body, err := c.get(ctx, "audits", c.auditsURL)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	if len(body) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode audit sheet: %w", err)
	}
	return rows, nil
}

// FetchSnapshot fetches both payloads concurrently. The first failure
// cancels the other request.
func (c *Client) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	var snapshot Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := c.FetchAllocators(ctx)
		if err != nil {
			return err
		}
		snapshot.AllocatorRows = rows
		return nil
	})

	g.Go(func() error {
		sheet, err := c.FetchAuditSheet(ctx)
		if err != nil {
			return err
		}
		snapshot.AuditSheet = sheet
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) get(ctx context.Context, source, url string) (body []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveFetch(source, err, time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to fetch %s: %w", source, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.String("source", source), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream returned non-200",
			zap.String("source", source),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, source, resp.StatusCode)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", source, err)
	}

	c.logger.Debug("fetched upstream payload",
		zap.String("source", source),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return body, nil
}
