package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/ports"
)

// OSRMRouteProvider resolves a single origin->destination leg via the OSRM
// `route` service. It is the last fallback tier, engaged per destination
// only when every matrix provider failed for a batch.
type OSRMRouteProvider struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMRouteProvider(baseURL string) *OSRMRouteProvider {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMRouteProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

func (o *OSRMRouteProvider) Name() string { return "osrm-route" }

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

var _ ports.RouteProvider = (*OSRMRouteProvider)(nil)

func (o *OSRMRouteProvider) ComputeRoute(
	ctx context.Context,
	origin, destination domain.Point,
) (*domain.RouteLeg, error) {
	endpoint := fmt.Sprintf(
		"%s/route/v1/%s/%s",
		o.baseURL, o.profile, coordPath([]domain.Point{origin, destination}),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm route: create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("overview", "false")
	req.URL.RawQuery = q.Encode()

	resp, err := do(o.session, req)
	if err != nil {
		return nil, fmt.Errorf("osrm route: request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return nil, fmt.Errorf("osrm route: no route (code=%q routes=%d)", rr.Code, len(rr.Routes))
	}

	return &domain.RouteLeg{
		DistanceKm:      rr.Routes[0].Distance / 1000,
		DurationMinutes: rr.Routes[0].Duration / 60,
	}, nil
}
