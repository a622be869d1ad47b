package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	hailhttp "hail/internal/http"
	"hail/internal/modules/chat"
	"hail/internal/modules/fare"
	"hail/internal/modules/location"
	"hail/internal/modules/ride"
	"hail/internal/types"
)

const testSecret = "handler-test-secret"

// newTestRouter builds the real router with nil stores. Only routes whose
// guards fire before any store access are exercised here; everything that
// talks to Postgres or Redis is covered by the module tests.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	fareSvc := fare.NewService(fare.FixedSource{Coefficient: 1.0})
	return hailhttp.NewRouter(hailhttp.ServerDeps{
		Rides:     ride.NewService(nil, fareSvc, log),
		Chat:      chat.NewService(nil, nil),
		Location:  location.NewService(nil),
		JWTSecret: testSecret,
		Log:       log,
	})
}

func testToken(t *testing.T, sub string, role types.Role) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": string(role),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Zero is a valid latitude and longitude; only out-of-range or non-finite
// coordinates are rejected, and by the service rather than request binding.
func TestEstimateZeroCoordinates(t *testing.T) {
	router := newTestRouter(t)
	token := testToken(t, "p1", types.RolePassenger)

	rec := doJSON(t, router, http.MethodPost, "/api/rides/estimate", token, map[string]any{
		"pickup_latitude":   5.0,
		"pickup_longitude":  0.0,
		"pickup_address":    "Equator East",
		"dropoff_latitude":  0.0,
		"dropoff_longitude": 0.0,
		"dropoff_address":   "Null Island",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("estimate with zero coordinates: status=%d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DistanceKm    float64 `json:"distance_km"`
		EstimatedFare float64 `json:"estimated_fare"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DistanceKm <= 0 || resp.EstimatedFare <= 0 {
		t.Fatalf("expected positive distance and fare, got %+v", resp)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/rides/estimate", token, map[string]any{
		"pickup_latitude":   123.0,
		"pickup_longitude":  0.0,
		"pickup_address":    "Nowhere",
		"dropoff_latitude":  0.0,
		"dropoff_longitude": 0.0,
		"dropoff_address":   "Null Island",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("estimate with out-of-range latitude: status=%d, want 400", rec.Code)
	}
}

func TestDriversNearbyQueryValidation(t *testing.T) {
	router := newTestRouter(t)
	token := testToken(t, "p1", types.RolePassenger)

	rec := doJSON(t, router, http.MethodGet, "/api/location/drivers?lat=23.8&lng=90.4&radius_km=nope", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed radius: status=%d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/location/drivers?lat=23.8&lng=90.4&radius_km=-1", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("negative radius: status=%d, want 400", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/rides", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status=%d, want 401", rec.Code)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "p1", "role": "passenger"})
	signed, err := tok.SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/rides", signed, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status=%d, want 401", rec.Code)
	}
}
