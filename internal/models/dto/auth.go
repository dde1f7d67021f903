package dto

import "github.com/reliwe/storefront/internal/models"

type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	City            string `json:"city"`
	ZipCode         string `json:"zip_code"`
	Country         string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User models.User `json:"user"`
	// Redirect tells the frontend where to land after login:
	// /admin for admins, /dashboard for everyone else.
	Redirect string `json:"redirect"`
}

type ProfileUpdateRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
}

type AdminUserUpdateRequest struct {
	Status string `json:"status,omitempty"`
	Role   string `json:"role,omitempty"`
}
