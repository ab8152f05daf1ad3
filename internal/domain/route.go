package domain

// Travel cost for one origin->destination pair as reported by a routing
// provider. Values are already normalized to kilometers and minutes.
type RouteLeg struct {
	DistanceKm      float64
	DurationMinutes float64
}

// A candidate location joined with its resolved travel cost.
// A RankedRoute only exists for destinations the provider could actually
// resolve; unreachable destinations are dropped, never zero-filled.
type RankedRoute struct {
	Location CandidateLocation
	Leg      RouteLeg
	Source   string
}
