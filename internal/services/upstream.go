package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cinelist/internal/config"
	"cinelist/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxResponseSize = 5 * 1024 * 1024 // 5MB

// HTTPError is returned for a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("API returned status code %d: %s", e.StatusCode, e.Body)
}

func isNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

// upstream is the HTTP plumbing shared by the catalog providers: a
// politeness limiter, optional retries and a size-capped body read.
type upstream struct {
	provider   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	userAgent  string
	logger     *logrus.Logger
}

func newUpstream(provider string, cfg config.UpstreamConfig, logger *logrus.Logger) *upstream {
	if logger == nil {
		logger = logrus.New()
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &upstream{
		provider: provider,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: max(cfg.MaxRetries, 0),
		retryDelay: cfg.RetryDelay,
		userAgent:  cfg.UserAgent,
		logger:     logger,
	}
}

// do sends the request built by newReq and returns the response body.
// newReq is called once per attempt so request bodies can be replayed.
// Transport errors and 5xx responses are retried up to maxRetries times;
// any other non-2xx status is returned at once as *HTTPError.
func (u *upstream) do(ctx context.Context, operation string, newReq func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	var rErr error

	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		if attempt > 0 {
			if err := u.waitForRetry(ctx, attempt); err != nil {
				return nil, err
			}
		}
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if u.userAgent != "" {
			req.Header.Set("User-Agent", u.userAgent)
		}

		start := time.Now()
		body, status, err := u.send(req)
		metrics.UpstreamDuration.WithLabelValues(u.provider, operation).Observe(time.Since(start).Seconds())

		if err == nil {
			metrics.UpstreamRequests.WithLabelValues(u.provider, operation, "ok").Inc()
			u.logger.WithFields(logrus.Fields{
				"provider":      u.provider,
				"operation":     operation,
				"path":          req.URL.Path,
				"attempt":       attempt,
				"status":        status,
				"response_size": len(body),
			}).Debug("API request successful")
			return body, nil
		}

		rErr = err
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			metrics.UpstreamRequests.WithLabelValues(u.provider, operation, "http_error").Inc()
			if httpErr.StatusCode < http.StatusInternalServerError {
				return nil, err
			}
		} else {
			metrics.UpstreamRequests.WithLabelValues(u.provider, operation, "transport_error").Inc()
		}

		if ctx.Err() != nil {
			break
		}
		if attempt < u.maxRetries {
			u.retryLogger(attempt, operation, req.URL, err)
		}
	}

	if u.maxRetries == 0 {
		return nil, rErr
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", u.maxRetries+1, rErr)
}

func (u *upstream) send(req *http.Request) ([]byte, int, error) {
	resp, err := u.httpClient.Do(req)
	if err != nil {
		// query strings may carry credentials
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
		}
		return nil, 0, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := readRespBody(resp)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := body
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return body, resp.StatusCode, &HTTPError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	return body, resp.StatusCode, nil
}

// readRespBody reads at most maxResponseSize bytes of the body.
func readRespBody(resp *http.Response) ([]byte, error) {
	if resp.ContentLength > maxResponseSize {
		return nil, fmt.Errorf("response too large: %d bytes", resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > maxResponseSize {
		return nil, fmt.Errorf("response too large: exceeded %d bytes", maxResponseSize)
	}
	return body, nil
}

func (u *upstream) waitForRetry(ctx context.Context, attempt int) error {
	delay := time.Duration(attempt) * u.retryDelay
	u.logger.WithField("delay", delay).Debug("waiting before retry")

	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (u *upstream) retryLogger(attempt int, operation string, target *url.URL, err error) {
	u.logger.WithFields(logrus.Fields{
		"provider":  u.provider,
		"operation": operation,
		"attempt":   attempt + 1,
		"path":      target.Path,
		"error":     err.Error(),
	}).Warn("API request failed, retrying...")
}
