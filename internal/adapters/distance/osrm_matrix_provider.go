package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/platform/obs"
	"provider-locator-service/internal/ports"
)

// OSRMMatrixProvider is the keyless fallback matrix tier, backed by an
// OSRM `table` service with the same one-to-many contract as the primary.
type OSRMMatrixProvider struct {
	session *http.Client
	baseURL string
	profile string
}

func NewOSRMMatrixProvider(baseURL string) *OSRMMatrixProvider {
	if baseURL == "" {
		baseURL = "https://router.project-osrm.org"
	}
	return &OSRMMatrixProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

func (o *OSRMMatrixProvider) Name() string { return "osrm" }

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// coordPath renders "lon,lat;lon,lat;..." the way OSRM expects.
func coordPath(points []domain.Point) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, fmt.Sprintf("%f,%f", p.Lon, p.Lat))
	}
	return strings.Join(parts, ";")
}

// ComputeMatrix fetches a single source row from the OSRM table endpoint.
// OSRM reports meters/seconds; results are normalized to km/minutes.
func (o *OSRMMatrixProvider) ComputeMatrix(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (_ *ports.MatrixResult, err error) {
	defer obs.Time(ctx, "osrm.ComputeMatrix")(&err)

	if len(destinations) == 0 {
		return &ports.MatrixResult{Source: o.Name()}, nil
	}

	points := make([]domain.Point, 0, 1+len(destinations))
	points = append(points, origin)
	points = append(points, destinations...)

	destIdx := make([]string, 0, len(destinations))
	for i := 1; i < len(points); i++ {
		destIdx = append(destIdx, fmt.Sprintf("%d", i))
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s", o.baseURL, o.profile, coordPath(points))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("osrm table: create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("sources", "0")
	q.Set("destinations", strings.Join(destIdx, ";"))
	q.Set("annotations", "distance,duration")
	req.URL.RawQuery = q.Encode()

	resp, err := do(o.session, req)
	if err != nil {
		return nil, fmt.Errorf("osrm table: request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("osrm table: decode response: %w", err)
	}

	if tr.Code != "Ok" {
		return nil, fmt.Errorf("osrm table: unexpected code %q", tr.Code)
	}
	if len(tr.Distances) != 1 || len(tr.Durations) != 1 {
		return nil, fmt.Errorf(
			"osrm table: expected 1 source row; got distances=%d durations=%d",
			len(tr.Distances), len(tr.Durations),
		)
	}

	rowDistances := tr.Distances[0]
	rowDurations := tr.Durations[0]
	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"osrm table: row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := &ports.MatrixResult{
		DistancesKm:  make([]*float64, len(destinations)),
		DurationsMin: make([]*float64, len(destinations)),
		Source:       o.Name(),
	}
	for i := range destinations {
		if rowDistances[i] == nil || rowDurations[i] == nil {
			continue
		}
		km := *rowDistances[i] / 1000
		minutes := *rowDurations[i] / 60
		out.DistancesKm[i] = &km
		out.DurationsMin[i] = &minutes
	}

	return out, nil
}
