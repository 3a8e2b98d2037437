package doctor

import (
	appointmentRepo "prescripto/database/repository/appointment"
	doctorRepo "prescripto/database/repository/doctor"
	"prescripto/models"
)

// DashboardData is the doctor console summary.
type DashboardData struct {
	Earnings           float64              `json:"earnings"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

// DoctorService handles the doctor console: authentication, profile, and
// availability management.
type DoctorService interface {
	Authenticate(email, password string) (*AuthResponse, error)
	List() ([]models.Doctor, error)
	GetByID(docID string) (*models.Doctor, error)
	ChangeAvailability(docID string) (bool, error)
	GetProfile(docID string) (*models.Doctor, error)
	UpdateProfile(docID string, req models.DoctorUpdateRequest) (*models.Doctor, error)
	Dashboard(docID string) (*DashboardData, error)
}

// DefaultDoctorService is the production implementation.
type DefaultDoctorService struct {
	Repo     doctorRepo.DoctorRepository
	ApptRepo appointmentRepo.AppointmentRepository
}

// AuthResponse contains the doctor id, bearer token, and display details.
type AuthResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}
