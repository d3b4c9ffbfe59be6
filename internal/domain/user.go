package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account type assigned at signup. Authorization is plain
// set membership over these values, there is no hierarchy.
type Role string

const (
	RoleBuyer   Role = "BUYER"
	RoleRealtor Role = "REALTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole parses a role from a route or request parameter.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(s)) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleRealtor:
		return RoleRealtor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User represents a registered account
type User struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Claims represents the identity carried by an access token. The role is
// deliberately not embedded; it is resolved from storage on each request.
type Claims struct {
	UserID string
	Name   string
}
