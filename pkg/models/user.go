package models

import "time"

type Role string

const (
	RoleDriver   Role = "DRIVER"
	RoleMechanic Role = "MECHANIC"
	RoleManager  Role = "MANAGER"
)

// Roles lists every role; the set is closed.
var Roles = []Role{RoleDriver, RoleMechanic, RoleManager}

func (r Role) Valid() bool {
	switch r {
	case RoleDriver, RoleMechanic, RoleManager:
		return true
	}
	return false
}

type MechanicStatus string

const (
	MechanicAvailable MechanicStatus = "AVAILABLE"
	MechanicBusy      MechanicStatus = "BUSY"
)

func (s MechanicStatus) Valid() bool {
	return s == MechanicAvailable || s == MechanicBusy
}

type User struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash []byte         `json:"-"`
	Role         Role           `json:"role"`
	Status       MechanicStatus `json:"status"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the public projection embedded in request views.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role Role
}

type NewUser struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     Role   `json:"-" form:"-"`
}

type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type MechanicDetail struct {
	Mechanic *User                `json:"mechanic"`
	Requests []*AssistanceRequest `json:"requests"`
}
