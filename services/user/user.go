package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"prescripto/models"
	"prescripto/utils"
)

const tokenDuration = 7 * 24 * time.Hour

// cacheTokenHash pins the latest issued token for a subject in the auth cache.
// A newer login overwrites the hash and invalidates any older token.
func cacheTokenHash(subject, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := utils.AuthCachePrefix + subject
	if err := utils.GetAuthCacheClient().Set(ctx, key, utils.HashToken(token), tokenDuration).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache token hash", zap.String("subject", subject), zap.Error(err))
	}
}

// Register creates a patient account and returns a signed token.
func (s *DefaultUserService) Register(data RegistrationData) (*AuthResponse, error) {
	if data.Name == "" || data.Email == "" || data.Password == "" {
		return nil, fmt.Errorf("name, email and password are required")
	}
	if len(data.Password) < 8 {
		return nil, fmt.Errorf("password should be at least 8 characters long")
	}
	if _, err := mail.ParseAddress(data.Email); err != nil {
		return nil, fmt.Errorf("please enter a valid email")
	}

	existing, err := s.Repo.GetByEmail(data.Email)
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("email already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	userObj := models.User{
		ID:           uuid.New().String(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.Repo.Create(&userObj); err != nil {
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	token, err := utils.GenerateToken(userObj.ID, utils.RolePatient, tokenDuration)
	if err != nil {
		utils.GetLogger().Error("Register: failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	cacheTokenHash(userObj.ID, token)

	return &AuthResponse{
		ID:    userObj.ID,
		Token: token,
		Name:  userObj.Name,
		Email: userObj.Email,
	}, nil
}

// Authenticate verifies credentials and returns a fresh token.
func (s *DefaultUserService) Authenticate(email, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if userRec == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(userRec.ID, utils.RolePatient, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	cacheTokenHash(userRec.ID, token)

	return &AuthResponse{
		ID:    userRec.ID,
		Token: token,
		Name:  userRec.Name,
		Email: userRec.Email,
	}, nil
}

// GetProfile returns the patient's profile.
func (s *DefaultUserService) GetProfile(userID string) (*models.User, error) {
	userRec, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if userRec == nil {
		return nil, fmt.Errorf("user not found")
	}
	return userRec, nil
}

// UpdateProfile applies the self-service profile fields. When imagePath is
// non-empty the file is pushed to the image host and only its URL is stored.
func (s *DefaultUserService) UpdateProfile(userID string, req models.UserUpdateRequest, imagePath string) (*models.User, error) {
	userRec, err := s.Repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if userRec == nil {
		return nil, fmt.Errorf("user not found")
	}

	if req.Name != "" {
		userRec.Name = req.Name
	}
	if req.Phone != "" {
		userRec.Phone = req.Phone
	}
	if req.Address != nil {
		userRec.Address = *req.Address
	}
	if req.Gender != "" {
		userRec.Gender = req.Gender
	}
	if req.Dob != "" {
		userRec.Dob = req.Dob
	}

	if imagePath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		url, err := s.Storage.UploadImage(ctx, imagePath, "users")
		if err != nil {
			utils.GetLogger().Error("UpdateProfile: image upload failed", zap.Error(err))
			return nil, fmt.Errorf("failed to upload profile image")
		}
		userRec.Image = url
	}

	if err := s.Repo.Update(userRec); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return userRec, nil
}

// GetAllUsers returns every patient account (admin dashboard).
func (s *DefaultUserService) GetAllUsers() ([]models.User, error) {
	return s.Repo.GetAll()
}
