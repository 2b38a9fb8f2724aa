package seller

import (
	"strings"
	"time"
)

type Seller struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (s Seller) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateInput is a profile edit. Nil fields are left unchanged.
type UpdateInput struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (u UpdateInput) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Phone == nil
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Seller Seller
	Token  string
}
