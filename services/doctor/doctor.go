package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"prescripto/models"
	"prescripto/utils"
)

const (
	tokenDuration     = 7 * 24 * time.Hour
	doctorListTTL     = 5 * time.Minute
	doctorListTimeout = 2 * time.Second
)

// Authenticate verifies doctor credentials and returns a fresh token.
func (s *DefaultDoctorService) Authenticate(email, password string) (*AuthResponse, error) {
	doc, err := s.Repo.GetByEmail(email)
	if err != nil {
		utils.GetLogger().Error("doctor Authenticate: failed to fetch doctor", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if doc == nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := utils.GenerateToken(doc.ID, utils.RoleDoctor, tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	return &AuthResponse{
		ID:    doc.ID,
		Token: token,
		Name:  doc.Name,
		Email: doc.Email,
	}, nil
}

// List returns every doctor minus credentials and contact email, served from
// the redis cache when warm. The slots_booked map is included so clients can
// render advisory availability.
func (s *DefaultDoctorService) List() ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(context.Background(), doctorListTimeout)
	defer cancel()

	cache := utils.GetCacheClient()
	if cached, err := cache.Get(ctx, utils.DoctorListCacheKey).Result(); err == nil {
		var doctors []models.Doctor
		if err := json.Unmarshal([]byte(cached), &doctors); err == nil {
			return doctors, nil
		}
	} else if err != redis.Nil {
		utils.GetLogger().Warn("doctor List: cache read failed", zap.Error(err))
	}

	doctors, err := s.Repo.GetAllWithProjection(bson.M{"passwordHash": 0, "email": 0})
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(doctors); err == nil {
		if err := cache.Set(ctx, utils.DoctorListCacheKey, b, doctorListTTL).Err(); err != nil {
			utils.GetLogger().Warn("doctor List: cache write failed", zap.Error(err))
		}
	}
	return doctors, nil
}

// GetByID returns a single doctor profile.
func (s *DefaultDoctorService) GetByID(docID string) (*models.Doctor, error) {
	doc, err := s.Repo.GetByID(docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("doctor not found")
	}
	return doc, nil
}

// ChangeAvailability toggles the availability flag and returns the new state.
func (s *DefaultDoctorService) ChangeAvailability(docID string) (bool, error) {
	doc, err := s.Repo.GetByID(docID)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, fmt.Errorf("doctor not found")
	}

	next := !doc.Available
	if err := s.Repo.SetAvailability(docID, next); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorListTimeout)
	defer cancel()
	utils.InvalidateDoctorListCache(ctx)

	return next, nil
}

// GetProfile returns the doctor's own profile.
func (s *DefaultDoctorService) GetProfile(docID string) (*models.Doctor, error) {
	return s.GetByID(docID)
}

// UpdateProfile applies the doctor-editable fields.
func (s *DefaultDoctorService) UpdateProfile(docID string, req models.DoctorUpdateRequest) (*models.Doctor, error) {
	doc, err := s.Repo.UpdateProfile(docID, req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), doctorListTimeout)
	defer cancel()
	utils.InvalidateDoctorListCache(ctx)

	return doc, nil
}

// Dashboard summarizes the doctor's bookings. Earnings count appointments that
// are paid or completed; patients are counted once across appointments.
func (s *DefaultDoctorService) Dashboard(docID string) (*DashboardData, error) {
	appts, err := s.ApptRepo.GetByDoctor(docID)
	if err != nil {
		return nil, err
	}

	var earnings float64
	patients := make(map[string]struct{})
	for _, a := range appts {
		if a.Payment || a.IsCompleted {
			earnings += a.Amount
		}
		patients[a.UserID] = struct{}{}
	}

	latest := appts
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &DashboardData{
		Earnings:           earnings,
		Appointments:       len(appts),
		Patients:           len(patients),
		LatestAppointments: latest,
	}, nil
}
