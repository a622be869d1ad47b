package ride

import "testing"

// TestCanTransition verifies the lifecycle table without a database.
func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		// happy-path forward transitions
		{StatusRequested, StatusAccepted, true},
		{StatusAccepted, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		// cleanup cancellation before the trip starts
		{StatusRequested, StatusCancelled, true},
		{StatusAccepted, StatusCancelled, true},
		// invalid: cancelling a running or finished trip
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		// invalid: terminal states have no outgoing transitions
		{StatusCompleted, StatusRequested, false},
		{StatusCancelled, StatusRequested, false},
		{StatusCancelled, StatusAccepted, false},
		// invalid: skipping or reversing states
		{StatusRequested, StatusInProgress, false},
		{StatusRequested, StatusCompleted, false},
		{StatusAccepted, StatusCompleted, false},
		{StatusInProgress, StatusAccepted, false},
		{StatusAccepted, StatusRequested, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
