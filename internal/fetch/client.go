package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// BackoffConfig controls exponential backoff behaviour.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config bundles the HTTP client and resilience settings.
type Config struct {
	Client  *http.Client
	Backoff BackoffConfig
	// Limiter, when set, is waited on before every attempt.
	Limiter *rate.Limiter
}

var (
	ErrRateLimited   = errors.New("rate limited")
	ErrServerError   = errors.New("server error")
	ErrUnexpected    = errors.New("unexpected status code")
	ErrCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid backoff configuration")
)

// StatusError carries the status code of a non-2xx response.
type StatusError struct {
	Code int
	kind error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", e.kind, e.Code)
}

func (e *StatusError) Unwrap() error { return e.kind }

// StatusCode extracts the HTTP status from err, or 0 if there is none.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Client executes requests with retries, exponential backoff, an optional
// rate limit and a circuit breaker.
type Client struct {
	cfg     Config
	circuit *gobreaker.CircuitBreaker
}

// New creates a Client whose breaker is identified by name.
func New(name string, cfg Config) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{cfg: cfg, circuit: cb}
}

// Do runs buildRequest until a 2xx response is obtained or retries are
// exhausted. 429 and 5xx responses are retried; other non-2xx statuses fail
// immediately. The caller owns the returned body.
func (c *Client) Do(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if c.cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if c.cfg.Backoff.MaxRetries < 0 || (c.cfg.Backoff.MaxRetries > 0 && c.cfg.Backoff.InitialInterval <= 0) {
		return nil, errInvalidConfig
	}

	var attempt int

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if c.cfg.Limiter != nil {
			if err := c.cfg.Limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait canceled: %w", err)
			}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		// Ensure the request obeys context cancellation.
		req = req.WithContext(ctx)

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.cfg.Client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				drain(resp)
				return nil, &StatusError{Code: resp.StatusCode, kind: ErrRateLimited}
			case resp.StatusCode >= 500:
				drain(resp)
				return nil, &StatusError{Code: resp.StatusCode, kind: ErrServerError}
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				drain(resp)
				return nil, &StatusError{Code: resp.StatusCode, kind: ErrUnexpected}
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		if errors.Is(err, ErrUnexpected) || attempt >= c.cfg.Backoff.MaxRetries {
			return nil, err
		}

		delay := c.cfg.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.cfg.Backoff.MaxInterval && c.cfg.Backoff.MaxInterval > 0 {
			delay = c.cfg.Backoff.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		attempt++
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
