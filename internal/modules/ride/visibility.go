// README: Per-actor ride visibility predicate.
package ride

import "hail/internal/types"

// Visible is the single visibility rule for the whole system. The store's
// List query expresses exactly this predicate in SQL; keeping the Go form
// here lets it be unit-tested in isolation from storage.
//
// Passengers see their own rides in every status. Drivers see the open pool
// (every requested ride) plus the active ride they currently hold; they never
// see another driver's trip nor any completed or cancelled ride.
func Visible(actor types.Actor, r *Ride) bool {
	switch actor.Role {
	case types.RolePassenger:
		return r.PassengerID == actor.ID
	case types.RoleDriver:
		if r.Status == StatusRequested {
			return true
		}
		return r.DriverID != nil && *r.DriverID == actor.ID && r.Active()
	default:
		return false
	}
}
