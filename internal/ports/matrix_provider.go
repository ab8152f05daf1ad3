package ports

import (
	"context"

	"provider-locator-service/internal/domain"
)

// MatrixResult holds parallel arrays aligned by destination index.
// A nil entry in either array means the provider could not resolve that
// destination; callers must drop it rather than fabricate a zero.
type MatrixResult struct {
	DistancesKm  []*float64
	DurationsMin []*float64
	Source       string
}

// Leg returns the resolved travel cost for destination index i, or nil
// when the provider reported that destination as unreachable.
func (m *MatrixResult) Leg(i int) *domain.RouteLeg {
	if i < 0 || i >= len(m.DistancesKm) || i >= len(m.DurationsMin) {
		return nil
	}
	d := m.DistancesKm[i]
	t := m.DurationsMin[i]
	if d == nil || t == nil {
		return nil
	}
	return &domain.RouteLeg{DistanceKm: *d, DurationMinutes: *t}
}

// Contract for one-to-many driving distance/duration lookups.
//
// An error return is a soft failure ("this tier is unavailable for this
// batch"): missing credentials, transport failure, non-2xx response, or a
// response shape that cannot be trusted. The caller moves on to the next
// tier; providers are never retried within a batch.
type MatrixProvider interface {
	Name() string
	ComputeMatrix(ctx context.Context, origin domain.Point, destinations []domain.Point) (*MatrixResult, error)
}
