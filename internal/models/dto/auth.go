package dto

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate trims the identity fields in place and checks every field.
func (r *RegisterRequest) Validate() error {
	errs := fieldErrors{}
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		errs.add("username", "is required")
	}
	if r.Email == "" {
		errs.add("email", "is required")
	} else if !strings.Contains(r.Email, "@") {
		errs.add("email", "must be an email address")
	}
	switch {
	case len(strings.TrimSpace(r.Password)) < minPasswordLength || !utf8.ValidString(r.Password):
		errs.add("password", "must be at least 8 characters")
	case len(r.Password) > maxPasswordBytes:
		errs.add("password", "must be at most 72 bytes")
	}
	return errs.err()
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	errs := fieldErrors{}
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		errs.add("email", "is required")
	}
	if r.Password == "" {
		errs.add("password", "is required")
	}
	return errs.err()
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
