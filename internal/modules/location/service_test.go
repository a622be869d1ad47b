package location

import (
	"context"
	"testing"

	"hail/internal/types"
)

// Guard checks fail before any store access, so they run without Redis.
func TestReportGuards(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.Report(ctx, Update{
		Actor: types.Actor{ID: "p1", Role: types.RolePassenger},
		Point: types.Point{Lat: 23.81, Lng: 90.41},
	})
	if err != ErrNotAllowed {
		t.Errorf("passenger report: expected ErrNotAllowed, got %v", err)
	}

	_, err = svc.Report(ctx, Update{
		Actor: types.Actor{ID: "d1", Role: types.RoleDriver},
		Point: types.Point{Lat: 123.0, Lng: 90.41},
	})
	if err != ErrBadRequest {
		t.Errorf("bad coordinates: expected ErrBadRequest, got %v", err)
	}

	_, err = svc.Report(ctx, Update{
		Actor:       types.Actor{ID: "d1", Role: types.RoleDriver},
		Point:       types.Point{Lat: 23.81, Lng: 90.41},
		VehicleType: "boat",
	})
	if err != ErrBadRequest {
		t.Errorf("bad vehicle type: expected ErrBadRequest, got %v", err)
	}

	if _, err := svc.Nearby(ctx, types.Point{Lat: 23.81, Lng: 90.41}, 0); err != ErrBadRequest {
		t.Errorf("zero radius: expected ErrBadRequest, got %v", err)
	}
}

func TestValidVehicleType(t *testing.T) {
	for _, v := range []VehicleType{VehicleCar, VehicleBike, VehicleRickshaw} {
		if !ValidVehicleType(v) {
			t.Errorf("%s should be valid", v)
		}
	}
	if ValidVehicleType("boat") {
		t.Error("boat should be invalid")
	}
}
