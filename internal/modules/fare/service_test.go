package fare

import (
	"math"
	"math/rand"
	"testing"

	"hail/internal/types"
)

var (
	dhakaPickup  = types.Point{Lat: 23.8103, Lng: 90.4125}
	dhakaDropoff = types.Point{Lat: 23.8203, Lng: 90.4225}
)

func TestEstimatePinnedNormalTraffic(t *testing.T) {
	svc := NewService(FixedSource{Coefficient: 1.0})

	est, err := svc.Estimate(dhakaPickup, dhakaDropoff)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	if math.Abs(est.DistanceKm-1.50707) > 1e-3 {
		t.Errorf("distance = %v, want ~1.50707", est.DistanceKm)
	}
	if est.DurationMinutes != 4 {
		t.Errorf("duration = %d, want 4", est.DurationMinutes)
	}
	if est.TrafficFactor != 1.0 || est.TrafficStatus != StatusNormal {
		t.Errorf("traffic = %v/%s, want 1.0/%s", est.TrafficFactor, est.TrafficStatus, StatusNormal)
	}
	// (50 + 1.50707*25 + 4*3) * 1.0 = 99.6768... -> 99.68
	if est.EstimatedFare.Amount != 9968 {
		t.Errorf("fare = %d cents, want 9968", est.EstimatedFare.Amount)
	}
	if est.EstimatedFare.Currency != Currency {
		t.Errorf("currency = %s, want %s", est.EstimatedFare.Currency, Currency)
	}
}

func TestEstimatePinnedHeavyTraffic(t *testing.T) {
	svc := NewService(FixedSource{Coefficient: 1.5})

	est, err := svc.Estimate(dhakaPickup, dhakaDropoff)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}

	// Speed drops to 20/1.5 km/h, so the same trip takes 6 whole minutes.
	if est.DurationMinutes != 6 {
		t.Errorf("duration = %d, want 6", est.DurationMinutes)
	}
	if est.TrafficStatus != StatusHeavy {
		t.Errorf("traffic status = %s, want %s", est.TrafficStatus, StatusHeavy)
	}
	// (50 + 1.50707*25 + 6*3) * 1.5 = 158.515... -> 158.52
	if est.EstimatedFare.Amount != 15852 {
		t.Errorf("fare = %d cents, want 15852", est.EstimatedFare.Amount)
	}
}

func TestEstimateZeroDistance(t *testing.T) {
	svc := NewService(FixedSource{Coefficient: 1.0})

	est, err := svc.Estimate(dhakaPickup, dhakaPickup)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if est.DistanceKm != 0 || est.DurationMinutes != 0 {
		t.Errorf("expected zero distance and duration, got %v km / %d min", est.DistanceKm, est.DurationMinutes)
	}
	if est.EstimatedFare.Amount != 5000 {
		t.Errorf("fare = %d cents, want base fare 5000", est.EstimatedFare.Amount)
	}
}

func TestEstimateRejectsBadCoordinates(t *testing.T) {
	svc := NewService(FixedSource{Coefficient: 1.0})

	bad := []types.Point{
		{Lat: math.NaN(), Lng: 90.4},
		{Lat: 23.8, Lng: math.Inf(1)},
		{Lat: 91.0, Lng: 90.4},
		{Lat: 23.8, Lng: 181.0},
		{Lat: -90.5, Lng: 0},
	}
	for _, p := range bad {
		if _, err := svc.Estimate(p, dhakaDropoff); err != ErrBadCoordinates {
			t.Errorf("pickup %+v: expected ErrBadCoordinates, got %v", p, err)
		}
		if _, err := svc.Estimate(dhakaPickup, p); err != ErrBadCoordinates {
			t.Errorf("dropoff %+v: expected ErrBadCoordinates, got %v", p, err)
		}
	}
}

func TestRandomSourceDistribution(t *testing.T) {
	src := NewRandomSource(rand.New(rand.NewSource(1)))

	heavy := 0
	const n = 10000
	for i := 0; i < n; i++ {
		factor, status := src.Factor()
		switch factor {
		case factorHeavy:
			heavy++
			if status != StatusHeavy {
				t.Fatalf("heavy factor with status %s", status)
			}
		case factorNormal:
			if status != StatusNormal {
				t.Fatalf("normal factor with status %s", status)
			}
		default:
			t.Fatalf("unexpected factor %v", factor)
		}
	}

	ratio := float64(heavy) / n
	if ratio < 0.17 || ratio > 0.23 {
		t.Errorf("heavy ratio = %v, want ~0.2", ratio)
	}
}
