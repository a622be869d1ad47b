// README: Authenticated actor identity produced by the auth middleware.
package types

type Role string

const (
	RolePassenger Role = "passenger"
	RoleDriver    Role = "driver"
)

type Actor struct {
	ID   ID
	Role Role
}
