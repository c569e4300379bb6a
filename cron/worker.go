package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fundis/config"
	bookingRepo "fundis/database/repository/booking"
	"fundis/models"
	"fundis/services/tasks"
	"fundis/services/whatsapp"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(bookings bookingRepo.BookingRepository, transport whatsapp.Transport) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(tasks.TypeSendPaymentReminder, handlePaymentReminder(bookings, transport))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handlePaymentReminder nudges the client if the booking is still
// confirmed and unpaid when the task fires. Paid, cancelled or
// completed bookings make the reminder a silent no-op.
func handlePaymentReminder(bookings bookingRepo.BookingRepository, transport whatsapp.Transport) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderWorker] invalid payload: %v", err)
			return err
		}

		bk, err := bookings.GetByID(p.BookingID)
		if err != nil {
			return fmt.Errorf("failed to load booking %s: %w", p.BookingID, err)
		}
		if bk == nil || bk.Status != models.BookingConfirmed || bk.PaymentStatus != models.PaymentStatusPending {
			return nil
		}

		msg := fmt.Sprintf(
			"⏰ Friendly reminder: your %s booking (KES %.0f) is confirmed but unpaid.\nReply PAY %s to pay via M-Pesa.",
			p.ServiceType, p.Amount, p.BookingID)
		if err := transport.SendText(ctx, p.WhatsAppID, msg); err != nil {
			return fmt.Errorf("failed to send payment reminder for %s: %w", p.BookingID, err)
		}
		return nil
	}
}
