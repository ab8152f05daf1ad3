package domain

// A candidate service-provider location submitted by the caller.
// Identity is positional within a single request; nothing here persists
// across requests.
type CandidateLocation struct {
	Name         string
	Point        Point
	Address      string
	Number       string
	Neighborhood string
	City         string
	State        string
	Services     string
}
