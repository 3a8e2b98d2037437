package admin

import (
	appointmentRepo "prescripto/database/repository/appointment"
	doctorRepo "prescripto/database/repository/doctor"
	userRepo "prescripto/database/repository/user"
	"prescripto/models"
	"prescripto/services/storage"
)

// AddDoctorRequest carries the multipart fields for creating a doctor profile.
type AddDoctorRequest struct {
	Name       string
	Email      string
	Password   string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fees       float64
	Address    models.Address
}

// DashboardData is the admin console summary.
type DashboardData struct {
	Doctors            int                  `json:"doctors"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

// AdminService handles the admin console: login against the configured
// credentials, doctor management, and the dashboard.
type AdminService interface {
	Authenticate(email, password string) (string, error)
	AddDoctor(req AddDoctorRequest, imagePath string) (*models.Doctor, error)
	AllDoctors() ([]models.Doctor, error)
	Dashboard() (*DashboardData, error)
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	DoctorRepo doctorRepo.DoctorRepository
	UserRepo   userRepo.UserRepository
	ApptRepo   appointmentRepo.AppointmentRepository
	Storage    storage.StorageService
}
