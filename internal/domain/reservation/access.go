package reservation

import "github.com/BruksfildServices01/reservas-api/internal/models"

type Role string

const (
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleOwner, RoleCustomer:
		return r, true
	}
	return "", false
}

// Actor is the authenticated caller as supplied by the identity layer.
type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsOwner() bool {
	return a.Authenticated() && a.Role == RoleOwner
}

// ===============================
// Capabilities
// ===============================

func MayReserve(a Actor) bool {
	if !a.Authenticated() {
		return false
	}
	_, ok := ParseRole(string(a.Role))
	return ok
}

func MayCreateLocation(a Actor) bool {
	return a.IsOwner()
}

func MayManageLocation(a Actor, loc *models.Location) bool {
	return a.IsOwner() && loc != nil && loc.OwnerID == a.UserID
}

// MayView: customers see their own reservations, owners also see the
// reservations made for their locations.
func MayView(a Actor, r *models.Reservation) bool {
	if !a.Authenticated() || r == nil {
		return false
	}
	if r.UserID == a.UserID {
		return true
	}
	return a.IsOwner() && r.Location.OwnerID == a.UserID
}

// MayCancel: only the customer who made the reservation.
func MayCancel(a Actor, r *models.Reservation) bool {
	return a.Authenticated() && r != nil && r.UserID == a.UserID
}
