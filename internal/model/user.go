package model

import "time"

// Role distinguishes the two kinds of portal users.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// User represents a registered portal user (student or staff).
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the payload for user self-registration. Supplying the
// correct staff invite code registers the user with the staff role.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=255"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	InviteCode string `json:"invite_code" binding:"omitempty,max=64"`
}

// LoginRequest is the payload for email + password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
