package ports

import (
	"context"

	"provider-locator-service/internal/domain"
)

// Contract for one-to-one routing calls, used as the last fallback tier
// when every matrix provider failed for a batch. An error means this
// single destination could not be resolved; it never fails the batch.
type RouteProvider interface {
	Name() string
	ComputeRoute(ctx context.Context, origin, destination domain.Point) (*domain.RouteLeg, error)
}
