package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Partners start unapproved and are activated by an admin before
// they can manage schedules or reservations.
type User struct {
	id           uuid.UUID
	email        Email
	passwordHash string
	role         Role
	approved     bool
	isActive     bool
	lastLogin    *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(email Email, passwordHash string, role Role) *User {
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		// Customers and admins need no approval step.
		approved: role != RolePartner,
		isActive: true,
	}
}

// Reconstruct hydrates a stored user row. The email and role were validated
// when the row was written, so they are taken as-is.
func Reconstruct(
	id uuid.UUID,
	email, passwordHash, role string,
	approved, isActive bool,
	lastLogin *time.Time,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		email:        Email{value: email},
		passwordHash: passwordHash,
		role:         Role(role),
		approved:     approved,
		isActive:     isActive,
		lastLogin:    lastLogin,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID         { return u.id }
func (u *User) Email() Email          { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Role() Role            { return u.role }
func (u *User) Approved() bool        { return u.approved }
func (u *User) IsActive() bool        { return u.isActive }
func (u *User) LastLogin() *time.Time { return u.lastLogin }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
