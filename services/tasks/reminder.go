package tasks

import (
	"encoding/json"
	"time"

	"turnero/config"
	"turnero/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues one reminder per appointment, LeadMin minutes before
// its start. Appointments starting inside the lead window get no reminder.
type Scheduler struct {
	Client  *asynq.Client
	LeadMin int
}

func NewScheduler(leadMin int) *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &Scheduler{Client: client, LeadMin: leadMin}
}

func (s *Scheduler) ScheduleReminder(appt *models.Appointment, toE164, body string) error {
	fireAt := appt.StartUTC.Add(-time.Duration(s.LeadMin) * time.Minute)
	if !fireAt.After(time.Now().UTC()) {
		return nil
	}

	payload := models.ReminderPayload{
		AppointmentID:  appt.ID,
		ProfessionalID: appt.ProfessionalID,
		ToE164:         toE164,
		Body:           body,
		FireAt:         fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.Enqueue(task, opts...)
	return err
}
