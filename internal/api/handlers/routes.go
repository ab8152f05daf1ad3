package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"provider-locator-service/internal/api/dto"
	"provider-locator-service/internal/services"
)

// RouteHandler exposes the route-distance aggregation endpoint.
// Validation, authorization, and the rate limit all run before any routing
// provider is contacted.
type RouteHandler struct {
	Authorizer services.Authorizer
	Limiter    services.RateLimiter
	Aggregator *services.Aggregator

	// ResultCutoffKm drops routes beyond this true driving distance before
	// the response is shaped. Independent from the aggregator's
	// straight-line pre-filter cutoff.
	ResultCutoffKm float64
	// MaxResults caps how many routes the response carries.
	MaxResults int
}

const routesEndpoint = "routes"

// Rank computes and returns the closest providers for an origin point.
func (h *RouteHandler) Rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RoutesRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	tenantID, origin, candidates, err := req.Validate()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Authorizer.Authorize(r.Context(), tenantID); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeError(w, r, http.StatusForbidden, "tenant not authorized")
			return
		}
		log.Printf("authorize failed tenant=%s err=%v", tenantID, err)
		writeError(w, r, http.StatusBadGateway, "tenant store unavailable")
		return
	}

	decision, err := h.Limiter.Check(r.Context(), tenantID.String(), routesEndpoint)
	if err != nil {
		log.Printf("rate limit check failed tenant=%s err=%v", tenantID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !decision.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(decision.RetryAfter.Seconds())))
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	routes, err := h.Aggregator.Aggregate(r.Context(), origin, candidates)
	if err != nil {
		// Only context cancellation reaches here; provider outages already
		// degraded to fewer results inside the aggregator.
		log.Printf("aggregate failed tenant=%s err=%v", tenantID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.RoutesResponse{Routes: make([]dto.RouteResponse, 0, len(routes))}
	for _, rt := range routes {
		if h.ResultCutoffKm > 0 && rt.Leg.DistanceKm > h.ResultCutoffKm {
			continue
		}
		if h.MaxResults > 0 && len(res.Routes) >= h.MaxResults {
			break
		}

		res.Routes = append(res.Routes, dto.RouteResponse{
			Name:            rt.Location.Name,
			DistanceKm:      rt.Leg.DistanceKm,
			DurationMinutes: rt.Leg.DurationMinutes,
			Latitude:        rt.Location.Point.Lat,
			Longitude:       rt.Location.Point.Lon,
			Address:         rt.Location.Address,
			Number:          rt.Location.Number,
			Neighborhood:    rt.Location.Neighborhood,
			City:            rt.Location.City,
			State:           rt.Location.State,
			Services:        rt.Location.Services,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
