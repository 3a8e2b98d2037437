package doctorRepo

import (
	"prescripto/models"

	"go.mongodb.org/mongo-driver/bson"
)

// DoctorRepository defines persistence operations for doctor profiles.
// Slot reservation and release are owned by the appointment repository, which
// pairs them transactionally with the appointment record.
type DoctorRepository interface {
	Create(doc *models.Doctor) error
	GetByID(id string) (*models.Doctor, error)
	GetByEmail(email string) (*models.Doctor, error)
	GetAllWithProjection(projection bson.M) ([]models.Doctor, error)
	SetAvailability(id string, available bool) error
	UpdateProfile(id string, req models.DoctorUpdateRequest) (*models.Doctor, error)
}
