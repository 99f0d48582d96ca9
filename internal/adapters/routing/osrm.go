package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"fleet-dispatch-service/internal/domain"
	"fleet-dispatch-service/internal/ports"
)

const DefaultBaseURL = "https://router.project-osrm.org"

// OSRMRouteService implements RouteService against an OSRM server.
//
// It performs exactly one request per Route call and classifies failures
// into typed kinds; the retry policy belongs to the oracle, not here.
type OSRMRouteService struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMRouteService(baseURL string) *OSRMRouteService {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &OSRMRouteService{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		DistanceMeters  float64 `json:"distance"`
		DurationSeconds float64 `json:"duration"`
	} `json:"routes"`
}

// Route fetches the driving distance and duration between two coordinate
// pairs. OSRM expects lon,lat ordering in the path.
func (o *OSRMRouteService) Route(ctx context.Context, origin, destination domain.Coordinates) (ports.RouteResult, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=false",
		o.baseURL, o.profile,
		origin.Lon, origin.Lat,
		destination.Lon, destination.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.RouteResult{}, &ports.RouteError{Kind: ports.RouteErrMalformed, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return ports.RouteResult{}, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ports.RouteResult{}, &ports.RouteError{
			Kind: ports.RouteErrRejected,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteResult{}, &ports.RouteError{Kind: ports.RouteErrMalformed, Err: err}
	}

	if decoded.Code != "Ok" {
		return ports.RouteResult{}, &ports.RouteError{
			Kind: ports.RouteErrRejected,
			Err:  fmt.Errorf("osrm code %q", decoded.Code),
		}
	}
	if len(decoded.Routes) == 0 {
		return ports.RouteResult{}, &ports.RouteError{
			Kind: ports.RouteErrMalformed,
			Err:  errors.New("osrm returned no routes"),
		}
	}

	return ports.RouteResult{
		DistanceKm:  decoded.Routes[0].DistanceMeters / 1000,
		DurationMin: decoded.Routes[0].DurationSeconds / 60,
	}, nil
}

func classifyTransport(err error) *ports.RouteError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ports.RouteError{Kind: ports.RouteErrTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ports.RouteError{Kind: ports.RouteErrTimeout, Err: err}
	}
	return &ports.RouteError{Kind: ports.RouteErrConnection, Err: err}
}
