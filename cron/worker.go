package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"turnero/config"
	bookingRepo "turnero/database/repository/booking"
	"turnero/models"
	"turnero/services/conversation"
	"turnero/services/messaging"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// ReminderPayload is the task body for a scheduled booking reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}

// Scheduler enqueues reminder tasks so customers get a heads-up before
// their appointment. Implements the engine's Reminders port.
type Scheduler struct {
	client  *asynq.Client
	leadMin int
	loc     *time.Location
}

func NewScheduler(leadMin int, loc *time.Location) *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	return &Scheduler{client: client, leadMin: leadMin, loc: loc}
}

// ScheduleReminder enqueues a reminder task to fire leadMin minutes before
// the appointment start. Appointments too close to now get no reminder.
func (s *Scheduler) ScheduleReminder(ctx context.Context, booking *models.Booking) error {
	day, err := time.ParseInLocation("2006-01-02", booking.Date, s.loc)
	if err != nil {
		return err
	}
	fireAt := day.Add(time.Duration(booking.StartMin-s.leadMin) * time.Minute)
	if fireAt.Before(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{BookingID: booking.ID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReminderSend, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(repo bookingRepo.BookingRepository, sender messaging.Sender) {
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
	mux.HandleFunc(TypeReminderSend, handleReminderTask(repo, sender))

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(repo bookingRepo.BookingRepository, sender messaging.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		booking, err := repo.GetByID(ctx, p.BookingID)
		if err != nil {
			log.Printf("[ReminderHandler] booking %s not loadable: %v", p.BookingID, err)
			return err
		}
		// Cancelled or still-unpaid bookings get no reminder.
		if booking.Status != models.BookingConfirmed {
			return nil
		}

		if err := sender.Send(ctx, booking.CustomerID, conversation.RenderReminder(booking)); err != nil {
			log.Printf("[ReminderHandler] failed to send reminder for %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}
