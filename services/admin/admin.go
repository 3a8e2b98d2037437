package admin

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"prescripto/config"
	"prescripto/models"
	"prescripto/utils"
)

const adminTokenDuration = 24 * time.Hour

// Authenticate checks the configured admin credentials and issues an admin token.
func (s *DefaultAdminService) Authenticate(email, password string) (string, error) {
	if config.AppConfig.AdminEmail == "" || config.AppConfig.AdminPassword == "" {
		return "", fmt.Errorf("admin login is not configured")
	}
	if email != config.AppConfig.AdminEmail || password != config.AppConfig.AdminPassword {
		return "", fmt.Errorf("invalid credentials")
	}
	return utils.GenerateToken(utils.AdminSubject, utils.RoleAdmin, adminTokenDuration)
}

// AddDoctor validates the submitted profile, uploads the portrait, and creates
// the doctor record. New doctors start available with no slots booked.
func (s *DefaultAdminService) AddDoctor(req AddDoctorRequest, imagePath string) (*models.Doctor, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Speciality == "" ||
		req.Degree == "" || req.Experience == "" || req.About == "" || req.Fees <= 0 {
		return nil, fmt.Errorf("all fields are required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters long")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("please enter a valid email")
	}
	if imagePath == "" {
		return nil, fmt.Errorf("image is required")
	}

	existing, err := s.DoctorRepo.GetByEmail(req.Email)
	if err != nil {
		utils.GetLogger().Error("AddDoctor: failed to check for existing doctor", zap.Error(err))
		return nil, fmt.Errorf("failed to add doctor, please try again")
	}
	if existing != nil {
		return nil, fmt.Errorf("a doctor with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("AddDoctor: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to add doctor, please try again")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	imageURL, err := s.Storage.UploadImage(ctx, imagePath, "doctors")
	if err != nil {
		utils.GetLogger().Error("AddDoctor: image upload failed", zap.Error(err))
		return nil, fmt.Errorf("failed to upload doctor image")
	}

	doc := models.Doctor{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Image:        imageURL,
		Speciality:   req.Speciality,
		Degree:       req.Degree,
		Experience:   req.Experience,
		About:        req.About,
		Available:    true,
		Fees:         req.Fees,
		Address:      req.Address,
		SlotsBooked:  map[string][]string{},
	}

	if err := s.DoctorRepo.Create(&doc); err != nil {
		utils.GetLogger().Error("AddDoctor: failed to create doctor", zap.Error(err))
		return nil, fmt.Errorf("failed to add doctor, please try again")
	}

	utils.InvalidateDoctorListCache(ctx)
	return &doc, nil
}

// AllDoctors returns every doctor profile minus credentials.
func (s *DefaultAdminService) AllDoctors() ([]models.Doctor, error) {
	return s.DoctorRepo.GetAllWithProjection(bson.M{"passwordHash": 0})
}

// Dashboard summarizes platform counts and the five newest appointments.
func (s *DefaultAdminService) Dashboard() (*DashboardData, error) {
	doctors, err := s.DoctorRepo.GetAllWithProjection(bson.M{"passwordHash": 0})
	if err != nil {
		return nil, err
	}
	users, err := s.UserRepo.GetAll()
	if err != nil {
		return nil, err
	}
	appts, err := s.ApptRepo.GetAll()
	if err != nil {
		return nil, err
	}

	latest := appts
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &DashboardData{
		Doctors:            len(doctors),
		Appointments:       len(appts),
		Patients:           len(users),
		LatestAppointments: latest,
	}, nil
}
