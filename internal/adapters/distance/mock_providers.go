package distance

import (
	"context"
	"errors"
	"slices"
	"sync"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/ports"
)

// ErrNoMockLeg is returned when a mock has no configured leg for a destination.
var ErrNoMockLeg = errors.New("no mock leg configured for destination")

// MockMatrixProvider is a test double implementing ports.MatrixProvider.
// LegFor decides the result per destination; returning nil produces an
// unreachable (null) cell. A non-nil Err makes the whole tier fail.
type MockMatrixProvider struct {
	SourceName string
	Err        error
	LegFor     func(dest domain.Point) *domain.RouteLeg

	mu    sync.Mutex
	Calls [][]domain.Point
}

func (m *MockMatrixProvider) Name() string { return m.SourceName }

func (m *MockMatrixProvider) ComputeMatrix(
	ctx context.Context,
	origin domain.Point,
	destinations []domain.Point,
) (*ports.MatrixResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, slices.Clone(destinations))
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	out := &ports.MatrixResult{
		DistancesKm:  make([]*float64, len(destinations)),
		DurationsMin: make([]*float64, len(destinations)),
		Source:       m.SourceName,
	}
	for i, d := range destinations {
		if m.LegFor == nil {
			continue
		}
		leg := m.LegFor(d)
		if leg == nil {
			continue
		}
		km := leg.DistanceKm
		minutes := leg.DurationMinutes
		out.DistancesKm[i] = &km
		out.DurationsMin[i] = &minutes
	}
	return out, nil
}

// MockRouteProvider is a test double implementing ports.RouteProvider.
type MockRouteProvider struct {
	SourceName string
	Err        error
	LegFor     func(dest domain.Point) *domain.RouteLeg

	mu    sync.Mutex
	Calls []domain.Point
}

func (m *MockRouteProvider) Name() string { return m.SourceName }

func (m *MockRouteProvider) ComputeRoute(
	ctx context.Context,
	origin, destination domain.Point,
) (*domain.RouteLeg, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, destination)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.LegFor == nil {
		return nil, ErrNoMockLeg
	}
	leg := m.LegFor(destination)
	if leg == nil {
		return nil, ErrNoMockLeg
	}
	return leg, nil
}

// CallCount returns how many matrix calls were recorded.
func (m *MockMatrixProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// RouteCallCount returns how many one-to-one calls were recorded.
func (m *MockRouteProvider) RouteCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
