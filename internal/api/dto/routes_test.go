package dto

import (
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func validRequest() RoutesRequest {
	return RoutesRequest{
		TenantID:  "5f3a9a2e-1db4-4f6c-9a53-b7f3f2f7a010",
		OriginLat: f(-23.55),
		OriginLon: f(-46.63),
		Locations: []LocationRequest{
			{Name: "Clinic A", Latitude: f(-23.50), Longitude: f(-46.60), City: "Sao Paulo"},
		},
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := validRequest()

	tenantID, origin, candidates, err := req.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenantID.String() != req.TenantID {
		t.Fatalf("tenant id = %s, want %s", tenantID, req.TenantID)
	}
	if origin.Lat != -23.55 || origin.Lon != -46.63 {
		t.Fatalf("origin = %+v", origin)
	}
	if len(candidates) != 1 || candidates[0].Name != "Clinic A" || candidates[0].City != "Sao Paulo" {
		t.Fatalf("candidates = %+v", candidates)
	}
}

func TestValidateTenantIDMissingVsMalformed(t *testing.T) {
	missing := validRequest()
	missing.TenantID = ""
	_, _, _, errMissing := missing.Validate()
	if errMissing == nil || !strings.Contains(errMissing.Error(), "required") {
		t.Fatalf("missing tenantId error = %v, want a 'required' message", errMissing)
	}

	malformed := validRequest()
	malformed.TenantID = "not-a-uuid"
	_, _, _, errMalformed := malformed.Validate()
	if errMalformed == nil || !strings.Contains(errMalformed.Error(), "valid UUID") {
		t.Fatalf("malformed tenantId error = %v, want a 'valid UUID' message", errMalformed)
	}

	if errMissing.Error() == errMalformed.Error() {
		t.Fatal("missing and malformed tenantId must produce distinct messages")
	}
}

func TestValidateRejectsNonHyphenatedUUID(t *testing.T) {
	req := validRequest()
	req.TenantID = "5f3a9a2e1db44f6c9a53b7f3f2f7a010"
	if _, _, _, err := req.Validate(); err == nil {
		t.Fatal("expected rejection of UUID without the 8-4-4-4-12 shape")
	}
}

func TestValidateOriginBounds(t *testing.T) {
	req := validRequest()
	req.OriginLat = f(95)
	if _, _, _, err := req.Validate(); err == nil || !strings.Contains(err.Error(), "originLat") {
		t.Fatalf("expected originLat range error, got %v", err)
	}

	req = validRequest()
	req.OriginLon = nil
	if _, _, _, err := req.Validate(); err == nil || !strings.Contains(err.Error(), "originLon") {
		t.Fatalf("expected originLon required error, got %v", err)
	}
}

func TestValidateLocationsCount(t *testing.T) {
	req := validRequest()
	req.Locations = nil
	if _, _, _, err := req.Validate(); err == nil || !strings.Contains(err.Error(), "at least 1") {
		t.Fatalf("expected minimum-count error, got %v", err)
	}

	req = validRequest()
	many := make([]LocationRequest, 101)
	for i := range many {
		many[i] = LocationRequest{Name: "x", Latitude: f(0), Longitude: f(0)}
	}
	req.Locations = many
	if _, _, _, err := req.Validate(); err == nil || !strings.Contains(err.Error(), "100") {
		t.Fatalf("expected the 100-item cap to be named, got %v", err)
	}
}

func TestValidateNamesOffendingLocationIndex(t *testing.T) {
	req := validRequest()
	req.Locations = []LocationRequest{
		{Name: "ok", Latitude: f(0), Longitude: f(0)},
		{Name: "ok too", Latitude: f(0), Longitude: f(0)},
		{Name: "", Latitude: f(0), Longitude: f(0)},
	}

	_, _, _, err := req.Validate()
	if err == nil || !strings.Contains(err.Error(), "location 3") {
		t.Fatalf("expected 1-based index of the bad entry, got %v", err)
	}
}

func TestValidateLocationFieldRules(t *testing.T) {
	long := strings.Repeat("x", 201)

	cases := []struct {
		name string
		loc  LocationRequest
		want string
	}{
		{"long name", LocationRequest{Name: long, Latitude: f(0), Longitude: f(0)}, "name"},
		{"missing latitude", LocationRequest{Name: "a", Longitude: f(0)}, "latitude"},
		{"latitude out of range", LocationRequest{Name: "a", Latitude: f(-91), Longitude: f(0)}, "out of range"},
		{"long optional field", LocationRequest{Name: "a", Latitude: f(0), Longitude: f(0), City: long}, "city"},
	}

	for _, tc := range cases {
		req := validRequest()
		req.Locations = []LocationRequest{tc.loc}
		_, _, _, err := req.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error = %v, want mention of %q", tc.name, err, tc.want)
		}
	}
}
