package user

import (
	userRepo "prescripto/database/repository/user"
	"prescripto/models"
	"prescripto/services/storage"
)

// RegistrationData carries the fields required to open a patient account.
type RegistrationData struct {
	Name     string
	Email    string
	Password string
}

// UserService handles patient accounts and self-service profiles.
type UserService interface {
	Register(data RegistrationData) (*AuthResponse, error)
	Authenticate(email, password string) (*AuthResponse, error)
	GetProfile(userID string) (*models.User, error)
	UpdateProfile(userID string, req models.UserUpdateRequest, imagePath string) (*models.User, error)
	GetAllUsers() ([]models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo    userRepo.UserRepository
	Storage storage.StorageService
}

// AuthResponse contains the account id, bearer token, and display details.
type AuthResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
