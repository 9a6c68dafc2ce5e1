package domain

import "time"

type StaffRole string

const (
	RoleOwner    StaffRole = "owner"
	RoleEmployee StaffRole = "employee"
)

// StaffAccount is a back-office user. Owners manage everything, employees the
// catalog and content.
type StaffAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
