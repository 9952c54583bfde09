package models

import "strings"

type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleFarmer Role = "FARMER"
	RoleAdmin  Role = "ADMIN"
)

var Roles = []Role{RoleBuyer, RoleFarmer, RoleAdmin}

func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleFarmer, RoleAdmin:
		return true
	}
	return false
}

// User is the cached profile kept next to the token. ID zero means the
// record came from an older format that did not store it.
type User struct {
	ID    int64  `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type Session struct {
	Token string
	User  User
}

func (s Session) Valid() bool {
	return s.Token != "" && s.User.ID != 0
}

// AuthResponse is the body returned by /auth/login and /auth/register.
type AuthResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (a AuthResponse) Session() Session {
	return Session{
		Token: a.Token,
		User: User{
			ID:    a.ID,
			Email: a.Email,
			Name:  a.Name,
			Role:  a.Role,
		},
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
