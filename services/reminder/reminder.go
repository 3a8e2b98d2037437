package reminder

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"prescripto/config"
	"prescripto/models"
)

const TypeAppointmentReminder = "reminder:appointment"

// ReminderPayload is the task body for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
	DoctorName    string `json:"doctorName"`
	SlotDate      string `json:"slotDate"`
	SlotTime      string `json:"slotTime"`
}

// AsynqScheduler enqueues reminder tasks on the Redis-backed queue.
type AsynqScheduler struct {
	client *asynq.Client
}

// NewAsynqScheduler creates a scheduler bound to the reminder queue DB.
func NewAsynqScheduler() *AsynqScheduler {
	return &AsynqScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderDB,
		}),
	}
}

// ScheduleReminder enqueues a reminder due one hour before the slot. Slots
// closer than an hour away get no reminder.
func (s *AsynqScheduler) ScheduleReminder(appt *models.Appointment) error {
	slotStart, err := models.ParseSlot(appt.SlotDate, appt.SlotTime, time.Local)
	if err != nil {
		return fmt.Errorf("cannot schedule reminder: %w", err)
	}

	fireAt := slotStart.Add(-time.Hour)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload := ReminderPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		DoctorName:    appt.DocData.Name,
		SlotDate:      appt.SlotDate,
		SlotTime:      appt.SlotTime,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeAppointmentReminder, b)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}
