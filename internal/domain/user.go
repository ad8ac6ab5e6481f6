package domain

import (
	"context"
	"errors"
	"time"
)

// Role represents a user's access level on the platform.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRecruiter   Role = "recruiter"
	RoleInterviewer Role = "interviewer"
	RoleViewer      Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:       true,
	RoleRecruiter:   true,
	RoleInterviewer: true,
	RoleViewer:      true,
}

var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates and returns a Role from a string.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !validRoles[r] {
		return "", ErrInvalidRole
	}
	return r, nil
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// CanManageOffers returns true for roles allowed to create and edit offers.
func (r Role) CanManageOffers() bool {
	return r == RoleAdmin || r == RoleRecruiter
}

// CanReviewAccess returns true for roles allowed to review access requests.
func (r Role) CanReviewAccess() bool {
	return r == RoleAdmin
}

// User represents a platform user (recruiter, interviewer, admin).
type User struct {
	id          UserID
	externalID  string // identifier from external auth provider
	username    string
	displayName string
	role        Role
	createdAt   time.Time
	updatedAt   time.Time
}

var (
	ErrUserExternalIDEmpty = errors.New("external id cannot be empty")
	ErrUsernameEmpty       = errors.New("username cannot be empty")
)

// NewUser creates a new User with the viewer role.
// roles are elevated through the access request flow, never at signup.
func NewUser(externalID, username string) (*User, error) {
	if externalID == "" {
		return nil, ErrUserExternalIDEmpty
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	now := time.Now().UTC()
	return &User{
		id:         NewUserID(),
		externalID: externalID,
		username:   username,
		role:       RoleViewer,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructUser recreates a User from stored data.
// use this when loading from database, not for creating new users.
func ReconstructUser(
	id UserID,
	externalID string,
	username string,
	displayName string,
	role Role,
	createdAt time.Time,
	updatedAt time.Time,
) *User {
	return &User{
		id:          id,
		externalID:  externalID,
		username:    username,
		displayName: displayName,
		role:        role,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the user's unique identifier.
func (u *User) ID() UserID {
	return u.id
}

// ExternalID returns the external auth provider identifier.
func (u *User) ExternalID() string {
	return u.externalID
}

// Username returns the user's username.
func (u *User) Username() string {
	return u.username
}

// DisplayName returns the user's display name.
func (u *User) DisplayName() string {
	return u.displayName
}

// Role returns the user's platform role.
func (u *User) Role() Role {
	return u.role
}

// CreatedAt returns when the user was created.
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

// UpdatedAt returns when the user was last updated.
func (u *User) UpdatedAt() time.Time {
	return u.updatedAt
}

// GrantRole elevates or demotes the user's role.
// called by the access request review flow.
func (u *User) GrantRole(role Role) error {
	if !validRoles[role] {
		return ErrInvalidRole
	}
	u.role = role
	u.updatedAt = time.Now().UTC()
	return nil
}

// UpdateProfile updates the user's profile fields.
func (u *User) UpdateProfile(displayName string) {
	u.displayName = displayName
	u.updatedAt = time.Now().UTC()
}

// UserRepository defines persistence for users.
type UserRepository interface {
	// Save persists a user (insert or update).
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by their internal ID.
	FindByID(ctx context.Context, id UserID) (*User, error)

	// FindByExternalID retrieves a user by their external auth provider ID.
	FindByExternalID(ctx context.Context, externalID string) (*User, error)

	// Exists checks if a user with the given ID exists.
	Exists(ctx context.Context, id UserID) (bool, error)
}
