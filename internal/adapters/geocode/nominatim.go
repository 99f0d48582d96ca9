package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/platform/obs"
	"fleet-dispatch-service/internal/ports"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// NominatimGeocoder resolves free-text place names via the Nominatim
// search API. A rate limiter paces calls to respect the public instance's
// usage policy; transient failures are retried with exponential backoff.
type NominatimGeocoder struct {
	session   *http.Client
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
}

func NewNominatimGeocoder(baseURL, userAgent string, limiter *rate.Limiter) *NominatimGeocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "fleet-dispatch-service"
	}
	return &NominatimGeocoder{
		session:   &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// Nominatim returns lat/lon as strings.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Resolve(ctx context.Context, name string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.Resolve")(&err)

	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return domain.Coordinates{}, errors.New("resolve: name must be non-empty")
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return domain.Coordinates{}, fmt.Errorf("resolve %q: wait for rate limiter: %w", name, err)
		}
	}

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		return g.newSearchRequest(ctx, name)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", name, err)
	}
	defer resp.Body.Close()

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: decode response: %w", name, err)
	}

	if len(results) == 0 {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", name, ports.ErrLocationNotFound)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: parse lat: %w", name, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: parse lon: %w", name, err)
	}

	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}

func (g *NominatimGeocoder) newSearchRequest(ctx context.Context, name string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	q := url.Values{}
	q.Set("q", name)
	q.Set("format", "json")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	return req, nil
}

type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// doWithRetry retries transient failures (network errors, 429/5xx)
// using exponential backoff while respecting context cancellation.
func (g *NominatimGeocoder) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := g.session.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		retry := false
		if err == nil {
			resp.Body.Close()
			lastErr = &httpStatusError{Code: resp.StatusCode}
			switch resp.StatusCode {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		} else {
			lastErr = err
			var netErr net.Error
			if errors.As(err, &netErr) {
				retry = true
			}
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
