package ride

import (
	"testing"

	"hail/internal/types"
)

func TestVisible(t *testing.T) {
	pax := types.Actor{ID: "p1", Role: types.RolePassenger}
	otherPax := types.Actor{ID: "p2", Role: types.RolePassenger}
	drv := types.Actor{ID: "d1", Role: types.RoleDriver}
	otherDrv := types.Actor{ID: "d2", Role: types.RoleDriver}

	d1 := types.ID("d1")

	mk := func(status Status, driver *types.ID) *Ride {
		return &Ride{ID: "r", PassengerID: "p1", DriverID: driver, Status: status}
	}

	cases := []struct {
		name  string
		actor types.Actor
		ride  *Ride
		want  bool
	}{
		{"passenger sees own requested", pax, mk(StatusRequested, nil), true},
		{"passenger sees own completed", pax, mk(StatusCompleted, &d1), true},
		{"passenger sees own cancelled", pax, mk(StatusCancelled, nil), true},
		{"other passenger sees nothing", otherPax, mk(StatusRequested, nil), false},
		{"driver sees open ride", drv, mk(StatusRequested, nil), true},
		{"other driver sees open ride", otherDrv, mk(StatusRequested, nil), true},
		{"driver sees own accepted", drv, mk(StatusAccepted, &d1), true},
		{"driver sees own in_progress", drv, mk(StatusInProgress, &d1), true},
		{"other driver blind to claimed ride", otherDrv, mk(StatusAccepted, &d1), false},
		{"other driver blind to running ride", otherDrv, mk(StatusInProgress, &d1), false},
		{"driver blind to own completed", drv, mk(StatusCompleted, &d1), false},
		{"driver blind to cancelled", drv, mk(StatusCancelled, nil), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Visible(tc.actor, tc.ride); got != tc.want {
				t.Errorf("Visible(%s/%s, %s) = %v, want %v", tc.actor.Role, tc.actor.ID, tc.ride.Status, got, tc.want)
			}
		})
	}
}
