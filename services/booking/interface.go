package booking

import (
	"context"
	"time"

	appointmentRepo "prescripto/database/repository/appointment"
	doctorRepo "prescripto/database/repository/doctor"
	userRepo "prescripto/database/repository/user"
	"prescripto/models"
)

// Principal identifies an authenticated caller acting on an appointment.
type Principal struct {
	ID   string
	Role string
}

// ReminderScheduler enqueues an appointment reminder. Scheduling is
// best-effort: a failure never fails the booking.
type ReminderScheduler interface {
	ScheduleReminder(appt *models.Appointment) error
}

// BookingService owns slot availability and the appointment lifecycle.
type BookingService interface {
	AvailableSlotsForDoctor(docID string) ([]models.DaySlots, error)
	Book(ctx context.Context, userID, docID, slotDate, slotTime string) (*models.Appointment, error)
	Cancel(ctx context.Context, requester Principal, appointmentID string) (bool, error)
	Complete(ctx context.Context, requester Principal, appointmentID string) error
	AppointmentsForUser(userID string) ([]models.Appointment, error)
	AppointmentsForDoctor(docID string) ([]models.Appointment, error)
	AllAppointments() ([]models.Appointment, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	DoctorRepo doctorRepo.DoctorRepository
	UserRepo   userRepo.UserRepository
	ApptRepo   appointmentRepo.AppointmentRepository
	Reminder   ReminderScheduler

	// Clock overrides time.Now in tests; leave nil in production.
	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
