package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/store"
)

type Client struct {
	HTTP      *http.Client
	Store     *store.CSVStore
	Logger    *zap.Logger
	BaseURL   string
	UserAgent string
	Sleep     time.Duration
	UseCache  bool
}

func NewClient(st *store.CSVStore, baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		Store:     st,
		Logger:    logger,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "wc2022-eda/1.0",
		Sleep:     250 * time.Millisecond,
		UseCache:  true,
	}
}

// FetchRaw downloads <BaseURL>/<name>.csv into the store. A cached copy is
// returned unless force is set. The body must parse as CSV with a header row
// before it is written.
func (c *Client) FetchRaw(ctx context.Context, name string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store.Exists(name) {
		c.Logger.Debug("fetch cache hit", zap.String("table", name))
		return c.Store.ReadRaw(name)
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("fetch %s: no base URL configured", name)
	}

	if c.Sleep > 0 {
		select {
		case <-time.After(c.Sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	url := c.BaseURL + "/" + name + ".csv"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed: %d body=%s", url, resp.StatusCode, snippet(body))
	}
	if _, err := store.ParseCSV(name, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	if err := c.Store.WriteRaw(name, body); err != nil {
		return nil, err
	}
	c.Logger.Info("fetched table",
		zap.String("table", name),
		zap.String("url", url),
		zap.Int("bytes", len(body)))
	return body, nil
}

func snippet(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
