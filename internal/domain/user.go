package domain

import "time"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
}

// CanManageInventory reports whether the role may issue batches and perform
// administrative ticket status changes.
func (u *User) CanManageInventory() bool {
	return u.Role == UserRoleAdmin || u.Role == UserRoleManager
}
