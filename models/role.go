package models

import "fmt"

// Role determines which order fields a user may edit
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
)

// ParseRole converts raw input into a Role. An empty string yields the default customer role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case "":
		return RoleCustomer, nil
	case RoleCustomer, RoleCourier:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// IsCourier reports whether the role is the courier role
func (r Role) IsCourier() bool {
	return r == RoleCourier
}
