package domain

import "time"

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email" validate:"required,email"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"full_name" validate:"required"`
	IsAdmin        bool      `json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}
