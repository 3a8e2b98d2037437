package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "prescripto/database/repository/appointment"
	"prescripto/models"
	"prescripto/utils"
)

// AvailableSlotsForDoctor computes the doctor's bookable slots over the horizon.
func (s *DefaultBookingService) AvailableSlotsForDoctor(docID string) ([]models.DaySlots, error) {
	doc, err := s.DoctorRepo.GetByID(docID)
	if err != nil {
		return nil, NewTransientError("failed to load doctor, please try again")
	}
	if doc == nil {
		return nil, NewNotFoundError("doctor not found")
	}
	return AvailableSlots(doc, s.now()), nil
}

// Book commits a patient's chosen slot. Preconditions are checked in order,
// each with its own reportable outcome; the final reserve is a conditional
// update inside the booking transaction, so a race loser fails with a
// conflict instead of double-booking.
func (s *DefaultBookingService) Book(ctx context.Context, userID, docID, slotDate, slotTime string) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if docID == "" || slotDate == "" || slotTime == "" {
		return nil, NewValidationError("docId, slotDate and slotTime are required")
	}
	if _, err := models.ParseSlot(slotDate, slotTime, s.now().Location()); err != nil {
		return nil, NewValidationError("invalid slot date or time")
	}

	user, err := s.UserRepo.GetByID(userID)
	if err != nil {
		logger.Error("Book: failed to fetch user", zap.String("userId", userID), zap.Error(err))
		return nil, NewTransientError("booking failed, please try again")
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	doc, err := s.DoctorRepo.GetByID(docID)
	if err != nil {
		logger.Error("Book: failed to fetch doctor", zap.String("docId", docID), zap.Error(err))
		return nil, NewTransientError("booking failed, please try again")
	}
	if doc == nil {
		return nil, NewNotFoundError("doctor not found")
	}
	if !doc.Available {
		return nil, NewConflictError("doctor is not available")
	}
	if doc.SlotTaken(slotDate, slotTime) {
		return nil, NewConflictError("slot is already booked")
	}
	if !slotBookable(doc, s.now(), slotDate, slotTime) {
		return nil, NewValidationError("slot is outside the bookable window")
	}

	appt := &models.Appointment{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		DocID:    doc.ID,
		SlotDate: slotDate,
		SlotTime: slotTime,
		UserData: models.UserSnapshot{
			Name:   user.Name,
			Email:  user.Email,
			Phone:  user.Phone,
			Gender: user.Gender,
			Dob:    user.Dob,
			Image:  user.Image,
		},
		DocData: models.DoctorSnapshot{
			Name:       doc.Name,
			Speciality: doc.Speciality,
			Degree:     doc.Degree,
			Experience: doc.Experience,
			Fees:       doc.Fees,
			Image:      doc.Image,
			Address:    doc.Address,
		},
		Amount: doc.Fees,
	}

	if err := s.ApptRepo.BookTransactionally(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotUnavailable) {
			return nil, NewConflictError("slot is no longer available")
		}
		logger.Error("Book: transaction failed", zap.String("docId", docID), zap.Error(err))
		return nil, NewTransientError("booking failed, please try again")
	}

	if s.Reminder != nil {
		if err := s.Reminder.ScheduleReminder(appt); err != nil {
			logger.Warn("Book: failed to schedule reminder", zap.String("appointmentId", appt.ID), zap.Error(err))
		}
	}

	return appt, nil
}

// canActOn reports whether the requester may cancel or complete the appointment.
func canActOn(requester Principal, appt *models.Appointment) bool {
	switch requester.Role {
	case utils.RoleAdmin:
		return true
	case utils.RolePatient:
		return requester.ID == appt.UserID
	case utils.RoleDoctor:
		return requester.ID == appt.DocID
	}
	return false
}

// Cancel marks the appointment cancelled and releases its slot. Cancelling an
// already-cancelled appointment is a no-op; the returned bool reports whether
// anything changed.
func (s *DefaultBookingService) Cancel(ctx context.Context, requester Principal, appointmentID string) (bool, error) {
	if appointmentID == "" {
		return false, NewValidationError("appointmentId is required")
	}

	appt, err := s.ApptRepo.GetByID(appointmentID)
	if err != nil {
		return false, NewTransientError("cancellation failed, please try again")
	}
	if appt == nil {
		return false, NewNotFoundError("appointment not found")
	}
	if !canActOn(requester, appt) {
		return false, NewUnauthorizedError("not permitted to cancel this appointment")
	}
	if appt.Cancelled {
		return false, nil
	}

	if err := s.ApptRepo.CancelTransactionally(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrAlreadyCancelled) {
			return false, nil
		}
		utils.GetLogger().Error("Cancel: transaction failed", zap.String("appointmentId", appointmentID), zap.Error(err))
		return false, NewTransientError("cancellation failed, please try again")
	}
	return true, nil
}

// Complete marks the appointment completed. Completion is a terminal state
// distinct from cancellation; a cancelled appointment cannot be completed.
func (s *DefaultBookingService) Complete(ctx context.Context, requester Principal, appointmentID string) error {
	if appointmentID == "" {
		return NewValidationError("appointmentId is required")
	}

	appt, err := s.ApptRepo.GetByID(appointmentID)
	if err != nil {
		return NewTransientError("completion failed, please try again")
	}
	if appt == nil {
		return NewNotFoundError("appointment not found")
	}
	if requester.Role != utils.RoleAdmin && !(requester.Role == utils.RoleDoctor && requester.ID == appt.DocID) {
		return NewUnauthorizedError("not permitted to complete this appointment")
	}
	if appt.Cancelled {
		return NewConflictError("cannot complete a cancelled appointment")
	}
	if appt.IsCompleted {
		return nil
	}

	if err := s.ApptRepo.MarkCompleted(appointmentID); err != nil {
		return NewTransientError("completion failed, please try again")
	}
	return nil
}

// AppointmentsForUser lists a patient's appointments, newest first.
func (s *DefaultBookingService) AppointmentsForUser(userID string) ([]models.Appointment, error) {
	appts, err := s.ApptRepo.GetByUser(userID)
	if err != nil {
		return nil, NewTransientError("failed to load appointments")
	}
	return appts, nil
}

// AppointmentsForDoctor lists a doctor's appointments, newest first.
func (s *DefaultBookingService) AppointmentsForDoctor(docID string) ([]models.Appointment, error) {
	appts, err := s.ApptRepo.GetByDoctor(docID)
	if err != nil {
		return nil, NewTransientError("failed to load appointments")
	}
	return appts, nil
}

// AllAppointments lists every appointment, newest first.
func (s *DefaultBookingService) AllAppointments() ([]models.Appointment, error) {
	appts, err := s.ApptRepo.GetAll()
	if err != nil {
		return nil, NewTransientError("failed to load appointments")
	}
	return appts, nil
}
