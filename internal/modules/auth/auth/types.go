package auth

import (
	"errors"
	"strings"
	"time"
)

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (d *LoginDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=72"`
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

var (
	errInvalidCredentials = errors.New("invalid credentials")
	errWrongPassword      = errors.New("current password is incorrect")
	errUserNotFound       = errors.New("user not found")
)
