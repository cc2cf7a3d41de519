package cwa

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-map/internal/fetch"
	"github.com/i474232898/weather-map/internal/logging"
	"github.com/i474232898/weather-map/internal/weather"
)

const providerName = "cwa"

// Config describes how to reach the CWA open data file API.
type Config struct {
	BaseURL string
	Dataset string
	APIKey  string
	Timeout time.Duration
	// InsecureTLS skips certificate verification; the CWA chain is not
	// always verifiable with stock roots.
	InsecureTLS bool
	// RawPath, when set, receives an indented copy of every payload.
	RawPath        string
	RequestsPerSec float64
}

// Client downloads and parses the agricultural weather forecast dataset.
// It implements weather.Provider.
type Client struct {
	cfg   Config
	fetch *fetch.Client
}

// NewClient builds a Client. A nil httpClient gets one derived from cfg.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
		if cfg.InsecureTLS {
			httpClient.Transport = &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			}
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), 1)
	}

	return &Client{
		cfg: cfg,
		fetch: fetch.New(providerName, fetch.Config{
			Client: httpClient,
			Backoff: fetch.BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: limiter,
		}),
	}
}

func (c *Client) Name() string {
	return providerName
}

// URL returns the dataset download URL.
func (c *Client) URL() string {
	values := url.Values{}
	if c.cfg.APIKey != "" {
		values.Set("Authorization", c.cfg.APIKey)
	}
	values.Set("downloadType", "WEB")
	values.Set("format", "JSON")
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Dataset, values.Encode())
}

// Fetch downloads the raw payload.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	u := c.URL()

	resp, err := c.fetch.Do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return nil, &weather.FetchError{URL: c.redactedURL(), StatusCode: fetch.StatusCode(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &weather.FetchError{URL: c.redactedURL(), Err: err}
	}
	return body, nil
}

// FetchForecasts downloads and parses one batch.
func (c *Client) FetchForecasts(ctx context.Context) (weather.Batch, error) {
	body, err := c.Fetch(ctx)
	if err != nil {
		return weather.Batch{}, err
	}

	if c.cfg.RawPath != "" {
		if err := saveRaw(c.cfg.RawPath, body); err != nil {
			logging.Warnf("could not save raw payload to %s: %v", c.cfg.RawPath, err)
		}
	}

	batch, err := Parse(body)
	if err != nil {
		return weather.Batch{}, err
	}

	logging.Infow("parsed cwa forecasts",
		"records", len(batch.Records),
		"profile", truncate(batch.Profile, 50))
	return batch, nil
}

func (c *Client) redactedURL() string {
	if c.cfg.APIKey == "" {
		return c.URL()
	}
	return strings.ReplaceAll(c.URL(), url.QueryEscape(c.cfg.APIKey), "REDACTED")
}

func saveRaw(path string, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return errors.Join(errors.New("payload is not JSON"), err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
