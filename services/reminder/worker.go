package reminder

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"prescripto/config"
	appointmentRepo "prescripto/database/repository/appointment"
	"prescripto/utils"
)

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(apptRepo appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAppointmentReminder, handleReminderTask(apptRepo))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[ReminderWorker] worker stopped: %v", err)
		}
	}()
}

func handleReminderTask(apptRepo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder: invalid payload", zap.Error(err))
			return err
		}

		appt, err := apptRepo.GetByID(p.AppointmentID)
		if err != nil {
			return err
		}
		// Drop reminders for appointments that no longer need one.
		if appt == nil || appt.Cancelled {
			return nil
		}

		logger.Info("appointment reminder due",
			zap.String("appointmentId", p.AppointmentID),
			zap.String("userId", p.UserID),
			zap.String("doctor", p.DoctorName),
			zap.String("slotDate", p.SlotDate),
			zap.String("slotTime", p.SlotTime),
		)
		return nil
	}
}
