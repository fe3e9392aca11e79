// Package model defines the storefront entities exchanged with the backend and cached by stores.
package model

import "slices"

// Role is a closed set of account roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Address is a postal address attached to a profile.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// UserProfile is the identity and contact data of the signed-in account.
type UserProfile struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	Roles        []Role    `json:"roles,omitempty"`
	Role         Role      `json:"role,omitempty"` // primary role for display
	ProfileImage string    `json:"profileImage,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    Timestamp `json:"createdAt,omitzero"`
}

// HasRole reports whether r is in the user's role set.
func (u *UserProfile) HasRole(r Role) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Roles, r)
}

// FullName joins first and last name.
func (u *UserProfile) FullName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Session is the persisted subset of the auth state.
type Session struct {
	User            *UserProfile `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// Valid reports whether the session satisfies its invariant:
// authenticated iff both user and token are present.
func (s Session) Valid() bool {
	return s.IsAuthenticated == (s.User != nil && s.Token != "")
}

// Normalize returns a session obeying the invariant; a half-filled session becomes anonymous.
func (s Session) Normalize() Session {
	if s.User == nil || s.Token == "" {
		return Session{}
	}
	s.IsAuthenticated = true
	return s
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a sign-up request.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate carries the fields a user may change; nil fields are not sent.
type ProfileUpdate struct {
	FirstName    *string  `json:"firstName,omitempty"`
	LastName     *string  `json:"lastName,omitempty"`
	Phone        *string  `json:"phone,omitempty"`
	ProfileImage *string  `json:"profileImage,omitempty"`
	Address      *Address `json:"address,omitempty"`
}

// PasswordChange is a change-password request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// PasswordReset completes a forgot-password flow.
type PasswordReset struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType,omitempty"`
	User      *UserProfile `json:"user"`
}

// Page is the paginated list wrapper used by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// PageQuery holds paging/sorting parameters shared by list endpoints.
type PageQuery struct {
	Page int
	Size int
	Sort string
}
