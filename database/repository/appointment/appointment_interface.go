package appointmentRepo

import (
	"context"
	"errors"

	"prescripto/models"
)

// ErrSlotUnavailable is returned when the conditional slot reserve matches no
// document: the slot was taken between validation and commit, or the doctor
// flipped to unavailable.
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrAlreadyCancelled is returned when a cancellation targets an appointment
// whose cancelled flag is already set.
var ErrAlreadyCancelled = errors.New("appointment already cancelled")

// AppointmentRepository defines persistence operations for appointments.
// Booking and cancellation pair the appointment write with the doctor's
// slots_booked update inside a single transaction.
type AppointmentRepository interface {
	GetByID(id string) (*models.Appointment, error)
	GetAll() ([]models.Appointment, error)
	GetByUser(userID string) ([]models.Appointment, error)
	GetByDoctor(docID string) ([]models.Appointment, error)
	MarkCompleted(id string) error
	SetPaymentIntent(id, intentID string) error
	MarkPaid(id string) error
	BookTransactionally(ctx context.Context, appt *models.Appointment) error
	CancelTransactionally(ctx context.Context, appt *models.Appointment) error
}
