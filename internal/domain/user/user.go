package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already in use")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	IsActive     bool      `json:"is_active"`
	Age          int       `json:"age"`
	Goal         string    `json:"goal"`
	Equipment    string    `json:"equipment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Age       int    `json:"age" binding:"required,gte=18,lte=120"`
	Goal      string `json:"goal" binding:"required,max=50"`
	Equipment string `json:"equipment" binding:"required,max=100"`
}
