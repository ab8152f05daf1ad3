package dto

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"provider-locator-service/internal/domain"
)

const (
	// MaxLocations caps how many candidates a single request may carry.
	MaxLocations = 100
	// MaxFieldLen caps the name and every optional address field.
	MaxFieldLen = 200
)

type LocationRequest struct {
	Name         string   `json:"name"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      string   `json:"address,omitempty"`
	Number       string   `json:"number,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Services     string   `json:"services,omitempty"`
}

type RoutesRequest struct {
	TenantID  string            `json:"tenantId"`
	OriginLat *float64          `json:"originLat"`
	OriginLon *float64          `json:"originLon"`
	Locations []LocationRequest `json:"locations"`
}

type RouteResponse struct {
	Name            string  `json:"name"`
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes float64 `json:"durationMinutes"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Address         string  `json:"address,omitempty"`
	Number          string  `json:"number,omitempty"`
	Neighborhood    string  `json:"neighborhood,omitempty"`
	City            string  `json:"city,omitempty"`
	State           string  `json:"state,omitempty"`
	Services        string  `json:"services,omitempty"`
}

type RoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

// Validate normalizes the request into typed domain values.
// Rules run in order and the first violation rejects the whole request;
// per-location errors name the offending entry with a 1-based index.
// No side effects: this gate runs before any store or network access.
func (r *RoutesRequest) Validate() (uuid.UUID, domain.Point, []domain.CandidateLocation, error) {
	var zero uuid.UUID

	if r.TenantID == "" {
		return zero, domain.Point{}, nil, errors.New("tenantId is required")
	}
	tenantID, err := uuid.Parse(r.TenantID)
	if err != nil || len(r.TenantID) != 36 {
		return zero, domain.Point{}, nil, errors.New("tenantId must be a valid UUID")
	}

	if r.OriginLat == nil {
		return zero, domain.Point{}, nil, errors.New("originLat is required")
	}
	if r.OriginLon == nil {
		return zero, domain.Point{}, nil, errors.New("originLon is required")
	}

	origin := domain.Point{Lat: *r.OriginLat, Lon: *r.OriginLon}
	if *r.OriginLat < -90 || *r.OriginLat > 90 {
		return zero, domain.Point{}, nil, errors.New("originLat must be between -90 and 90")
	}
	if *r.OriginLon < -180 || *r.OriginLon > 180 {
		return zero, domain.Point{}, nil, errors.New("originLon must be between -180 and 180")
	}

	if len(r.Locations) == 0 {
		return zero, domain.Point{}, nil, errors.New("locations must contain at least 1 entry")
	}
	if len(r.Locations) > MaxLocations {
		return zero, domain.Point{}, nil, fmt.Errorf(
			"locations must contain at most %d entries", MaxLocations,
		)
	}

	candidates := make([]domain.CandidateLocation, 0, len(r.Locations))
	for i, loc := range r.Locations {
		c, err := loc.toDomain()
		if err != nil {
			return zero, domain.Point{}, nil, fmt.Errorf("location %d: %w", i+1, err)
		}
		candidates = append(candidates, c)
	}

	return tenantID, origin, candidates, nil
}

func (l *LocationRequest) toDomain() (domain.CandidateLocation, error) {
	if l.Name == "" {
		return domain.CandidateLocation{}, errors.New("name is required")
	}
	if len(l.Name) > MaxFieldLen {
		return domain.CandidateLocation{}, fmt.Errorf("name must be at most %d characters", MaxFieldLen)
	}

	if l.Latitude == nil {
		return domain.CandidateLocation{}, errors.New("latitude is required")
	}
	if l.Longitude == nil {
		return domain.CandidateLocation{}, errors.New("longitude is required")
	}
	point := domain.Point{Lat: *l.Latitude, Lon: *l.Longitude}
	if !point.InRange() {
		return domain.CandidateLocation{}, errors.New("latitude/longitude out of range")
	}

	optional := []struct {
		field string
		value string
	}{
		{"address", l.Address},
		{"number", l.Number},
		{"neighborhood", l.Neighborhood},
		{"city", l.City},
		{"state", l.State},
		{"services", l.Services},
	}
	for _, o := range optional {
		if len(o.value) > MaxFieldLen {
			return domain.CandidateLocation{}, fmt.Errorf(
				"%s must be at most %d characters", o.field, MaxFieldLen,
			)
		}
	}

	return domain.CandidateLocation{
		Name:         l.Name,
		Point:        point,
		Address:      l.Address,
		Number:       l.Number,
		Neighborhood: l.Neighborhood,
		City:         l.City,
		State:        l.State,
		Services:     l.Services,
	}, nil
}
