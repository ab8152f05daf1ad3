package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"provider-locator-service/internal/adapters/distance"
	"provider-locator-service/internal/api/dto"
	"provider-locator-service/internal/domain"
	"provider-locator-service/internal/ports"
	"provider-locator-service/internal/services"
)

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*domain.Tenant
	err     error
}

func (f *fakeTenantRepo) GetTenant(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tenants[id]
	if !ok {
		return nil, ports.ErrTenantNotFound
	}
	return t, nil
}

type fakeCounterStore struct {
	counts map[string]int64
}

func (f *fakeCounterStore) Increment(
	ctx context.Context,
	identifier, endpoint string,
	window time.Duration,
) (ports.WindowCount, error) {
	if f.counts == nil {
		f.counts = make(map[string]int64)
	}
	key := identifier + "|" + endpoint
	f.counts[key]++
	return ports.WindowCount{Count: f.counts[key], ResetIn: 30 * time.Second}, nil
}

var activeTenant = uuid.MustParse("5f3a9a2e-1db4-4f6c-9a53-b7f3f2f7a010")

func newHandler(matrix ports.MatrixProvider, maxAttempts int64) *RouteHandler {
	repo := &fakeTenantRepo{tenants: map[uuid.UUID]*domain.Tenant{
		activeTenant: {ID: activeTenant, Active: true},
	}}

	return &RouteHandler{
		Authorizer: services.Authorizer{Tenants: repo},
		Limiter: services.RateLimiter{
			Store:       &fakeCounterStore{},
			MaxAttempts: maxAttempts,
			Window:      time.Minute,
		},
		Aggregator: services.NewAggregator(
			[]ports.MatrixProvider{matrix}, nil, services.AggregatorConfig{},
		),
		ResultCutoffKm: 40,
		MaxResults:     10,
	}
}

func requestBody(tenantID string, locations string) string {
	return fmt.Sprintf(
		`{"tenantId":%q,"originLat":-23.55,"originLon":-46.63,"locations":%s}`,
		tenantID, locations,
	)
}

const oneLocation = `[{"name":"Clinic A","latitude":-23.50,"longitude":-46.60}]`

func postRoutes(h *RouteHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/routes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Rank(rec, req)
	return rec
}

func TestRankRejectsWrongMethod(t *testing.T) {
	h := newHandler(&distance.MockMatrixProvider{SourceName: "m"}, 20)

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	h.Rank(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("Allow header = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestRankRejectsInvalidJSON(t *testing.T) {
	h := newHandler(&distance.MockMatrixProvider{SourceName: "m"}, 20)

	rec := postRoutes(h, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
}

func TestRankRejectsValidationFailure(t *testing.T) {
	h := newHandler(&distance.MockMatrixProvider{SourceName: "m"}, 20)

	rec := postRoutes(h, requestBody("not-a-uuid", oneLocation))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UUID") {
		t.Fatalf("expected a UUID validation message, got %s", rec.Body.String())
	}
}

func TestRankUnknownAndInactiveTenantsLookAlike(t *testing.T) {
	matrix := &distance.MockMatrixProvider{SourceName: "m"}
	h := newHandler(matrix, 20)

	inactive := uuid.MustParse("00000000-1111-4222-8333-444444444444")
	repo := h.Authorizer.Tenants.(*fakeTenantRepo)
	repo.tenants[inactive] = &domain.Tenant{ID: inactive, Active: false}

	unknown := postRoutes(h, requestBody("99999999-9999-4999-8999-999999999999", oneLocation))
	inactiveRec := postRoutes(h, requestBody(inactive.String(), oneLocation))

	if unknown.Code != http.StatusForbidden || inactiveRec.Code != http.StatusForbidden {
		t.Fatalf("statuses = %d/%d, want 403/403", unknown.Code, inactiveRec.Code)
	}
	if unknown.Body.String() != inactiveRec.Body.String() {
		t.Fatal("unknown and inactive tenants must be indistinguishable")
	}
	if matrix.CallCount() != 0 {
		t.Fatal("no provider call may happen for an unauthorized tenant")
	}
}

func TestRankTenantStoreOutageIsHardFailure(t *testing.T) {
	h := newHandler(&distance.MockMatrixProvider{SourceName: "m"}, 20)
	h.Authorizer.Tenants.(*fakeTenantRepo).err = errors.New("connection refused")

	rec := postRoutes(h, requestBody(activeTenant.String(), oneLocation))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestRankRateLimitsWithRetryAfter(t *testing.T) {
	matrix := &distance.MockMatrixProvider{
		SourceName: "m",
		LegFor: func(domain.Point) *domain.RouteLeg {
			return &domain.RouteLeg{DistanceKm: 5, DurationMinutes: 10}
		},
	}
	h := newHandler(matrix, 2)

	body := requestBody(activeTenant.String(), oneLocation)
	for i := 0; i < 2; i++ {
		if rec := postRoutes(h, body); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := postRoutes(h, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("429 response must carry a Retry-After header")
	}
}

func TestRankReturnsSortedRoutesWithinCutoff(t *testing.T) {
	nearPoint := domain.Point{Lat: -23.50, Lon: -46.60}
	matrix := &distance.MockMatrixProvider{
		SourceName: "m",
		LegFor: func(dest domain.Point) *domain.RouteLeg {
			if dest == nearPoint {
				return &domain.RouteLeg{DistanceKm: 12, DurationMinutes: 18}
			}
			// Within the pre-filter radius but beyond the display cutoff.
			return &domain.RouteLeg{DistanceKm: 45, DurationMinutes: 50}
		},
	}
	h := newHandler(matrix, 20)

	locations := `[
		{"name":"Far Clinic","latitude":-23.20,"longitude":-46.63},
		{"name":"Clinic A","latitude":-23.50,"longitude":-46.60,"city":"Sao Paulo"}
	]`
	rec := postRoutes(h, requestBody(activeTenant.String(), locations))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	var res dto.RoutesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(res.Routes) != 1 {
		t.Fatalf("expected the 45km route to be cut off, got %d routes", len(res.Routes))
	}
	r := res.Routes[0]
	if r.Name != "Clinic A" || r.DistanceKm != 12 || r.DurationMinutes != 18 || r.City != "Sao Paulo" {
		t.Fatalf("unexpected route payload: %+v", r)
	}
}

func TestRankFullProviderOutageStillOK(t *testing.T) {
	matrix := &distance.MockMatrixProvider{SourceName: "m", Err: errors.New("down")}
	h := newHandler(matrix, 20)

	rec := postRoutes(h, requestBody(activeTenant.String(), oneLocation))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even under full outage", rec.Code)
	}

	var res dto.RoutesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Routes == nil || len(res.Routes) != 0 {
		t.Fatalf("expected an empty routes array, got %s", rec.Body.String())
	}
}
