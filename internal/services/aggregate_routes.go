package services

import (
	"context"
	"log"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/geo"
	"provider-locator-service/internal/ports"
)

// AggregatorConfig bounds the cost of one aggregation run.
type AggregatorConfig struct {
	// PrefilterCutoffKm is the straight-line radius beyond which candidates
	// never reach a routing provider.
	PrefilterCutoffKm float64
	// MaxRouted caps how many candidates are routed precisely, keeping the
	// closest by straight-line distance.
	MaxRouted int
	// BatchSize is the maximum number of destinations per matrix request.
	BatchSize int
	// BatchInterval spaces consecutive batches to stay polite toward
	// upstream rate limits. Zero disables pacing.
	BatchInterval time.Duration
}

// Aggregator turns an origin and a candidate set into routes ranked by real
// driving distance. It funnels candidates through the haversine pre-filter,
// batches the survivors, and walks an ordered list of provider tiers per
// batch: each matrix provider once, then the one-to-one fallback.
//
// Provider failures never fail the whole request; a batch whose every tier
// fails simply contributes no results.
type Aggregator struct {
	matrix []ports.MatrixProvider
	route  ports.RouteProvider
	cfg    AggregatorConfig
	pacer  *rate.Limiter
}

func NewAggregator(matrix []ports.MatrixProvider, route ports.RouteProvider, cfg AggregatorConfig) *Aggregator {
	if cfg.PrefilterCutoffKm <= 0 {
		cfg.PrefilterCutoffKm = 60
	}
	if cfg.MaxRouted <= 0 {
		cfg.MaxRouted = 20
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}

	pacer := rate.NewLimiter(rate.Inf, 1)
	if cfg.BatchInterval > 0 {
		pacer = rate.NewLimiter(rate.Every(cfg.BatchInterval), 1)
	}

	return &Aggregator{matrix: matrix, route: route, cfg: cfg, pacer: pacer}
}

// Aggregate returns resolved routes sorted ascending by distance.
// The only error it returns is context cancellation; everything provider-
// related degrades to fewer results.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	origin domain.Point,
	candidates []domain.CandidateLocation,
) ([]domain.RankedRoute, error) {
	ranked := geo.Prefilter(origin, candidates, a.cfg.PrefilterCutoffKm)
	if len(ranked) == 0 {
		return []domain.RankedRoute{}, nil
	}

	if len(ranked) > a.cfg.MaxRouted {
		ranked = ranked[:a.cfg.MaxRouted]
	}

	routed := make([]domain.RankedRoute, 0, len(ranked))
	for start := 0; start < len(ranked); start += a.cfg.BatchSize {
		end := min(start+a.cfg.BatchSize, len(ranked))

		// Batches run sequentially on purpose; the pacer keeps them from
		// firing back-to-back against upstream APIs.
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		routed = append(routed, a.routeBatch(ctx, origin, ranked[start:end])...)
	}

	slices.SortFunc(routed, func(x, y domain.RankedRoute) int {
		if x.Leg.DistanceKm < y.Leg.DistanceKm {
			return -1
		}
		if x.Leg.DistanceKm > y.Leg.DistanceKm {
			return 1
		}
		if x.Location.Name < y.Location.Name {
			return -1
		}
		if x.Location.Name > y.Location.Name {
			return 1
		}
		return 0
	})

	return routed, nil
}

// routeBatch resolves one batch through the provider tiers.
//
// Each matrix provider is tried exactly once, in order. A provider that
// succeeds settles the batch even if some destinations came back
// unreachable; those gaps are accepted, not re-resolved individually. Only
// when every matrix tier fails does the one-to-one fallback fire, and then
// for all destinations of the batch concurrently.
func (a *Aggregator) routeBatch(
	ctx context.Context,
	origin domain.Point,
	batch []geo.Ranked,
) []domain.RankedRoute {
	destinations := make([]domain.Point, 0, len(batch))
	for _, r := range batch {
		destinations = append(destinations, r.Location.Point)
	}

	for _, p := range a.matrix {
		res, err := p.ComputeMatrix(ctx, origin, destinations)
		if err != nil {
			log.Printf(
				"matrix tier unavailable provider=%s destinations=%d err=%v",
				p.Name(), len(destinations), err,
			)
			continue
		}

		out := make([]domain.RankedRoute, 0, len(batch))
		for i := range batch {
			leg := res.Leg(i)
			if leg == nil {
				continue
			}
			out = append(out, domain.RankedRoute{
				Location: batch[i].Location,
				Leg:      *leg,
				Source:   res.Source,
			})
		}
		return out
	}

	if a.route == nil {
		return nil
	}

	legs := make([]*domain.RouteLeg, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	for i := range batch {
		g.Go(func() error {
			leg, err := a.route.ComputeRoute(gctx, origin, batch[i].Location.Point)
			if err != nil {
				// A single unreachable destination never fails the batch.
				log.Printf(
					"route fallback failed provider=%s name=%q err=%v",
					a.route.Name(), batch[i].Location.Name, err,
				)
				return nil
			}
			legs[i] = leg
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.RankedRoute, 0, len(batch))
	for i := range batch {
		if legs[i] == nil {
			continue
		}
		out = append(out, domain.RankedRoute{
			Location: batch[i].Location,
			Leg:      *legs[i],
			Source:   a.route.Name(),
		})
	}
	return out
}
