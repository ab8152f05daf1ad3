package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/platform/obs"
	"provider-locator-service/internal/ports"
)

// ORSMatrixProvider is the primary (keyed) matrix tier, backed by the
// OpenRouteService one-to-many matrix endpoint.
//
// The provider is safe for concurrent use. Any failure, including a
// missing API key, surfaces as an error so the aggregator can fall
// through to the next tier.
type ORSMatrixProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

func NewORSMatrixProvider(apiKey string) *ORSMatrixProvider {
	return &ORSMatrixProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}
}

func (o *ORSMatrixProvider) Name() string { return "ors" }

type orsMatrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type orsMatrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// ComputeMatrix fetches a single origin->many matrix row.
// ORS reports meters/seconds; results are normalized to km/minutes.
func (o *ORSMatrixProvider) ComputeMatrix(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (_ *ports.MatrixResult, err error) {
	defer obs.Time(ctx, "ors.ComputeMatrix")(&err)

	if o.apiKey == "" {
		return nil, errors.New("ors matrix: api key is not configured")
	}
	if len(destinations) == 0 {
		return &ports.MatrixResult{Source: o.Name()}, nil
	}

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, d := range destinations {
		locations = append(locations, d.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	payload, err := json.Marshal(orsMatrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	})
	if err != nil {
		return nil, fmt.Errorf("ors matrix: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ors matrix: create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := do(o.session, req)
	if err != nil {
		return nil, fmt.Errorf("ors matrix: request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr orsMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("ors matrix: decode response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"ors matrix: expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]
	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"ors matrix: row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := &ports.MatrixResult{
		DistancesKm:  make([]*float64, len(destinations)),
		DurationsMin: make([]*float64, len(destinations)),
		Source:       o.Name(),
	}
	for i := range destinations {
		// A null cell means this destination was unreachable; keep the gap.
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
