package auth

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the access layer.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is a domain entity representing a system user.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
