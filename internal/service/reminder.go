package service

import (
	"context"
	"time"

	"todohub/internal/logger"
	"todohub/internal/models"
	"todohub/internal/repository"
)

const defaultReminderWindow = 24 * time.Hour

// ReminderService sweeps the store and emits a TODO_DUE_SOON activity event
// for every unfinished todo whose due date falls within the window. A todo
// is reminded at most once.
type ReminderService struct {
	todos    repository.Todos
	activity repository.Activity
	window   time.Duration
	log      *logger.Logger
}

func NewReminderService(todos repository.Todos, activity repository.Activity, window time.Duration, log *logger.Logger) *ReminderService {
	if window <= 0 {
		window = defaultReminderWindow
	}
	return &ReminderService{todos: todos, activity: activity, window: window, log: log}
}

// Run ticks at the given interval until ctx is canceled.
func (s *ReminderService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// sweep emits reminders for everything currently inside the window.
func (s *ReminderService) sweep(ctx context.Context) {
	until := time.Now().UTC().Add(s.window)

	due, err := s.todos.DueSoon(ctx, until)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("reminder_sweep_failed", "err", err)
		}
		return
	}

	for _, t := range due {
		err := s.activity.Append(ctx, models.ActivityEvent{
			OwnerID: t.OwnerID,
			Type:    models.EventTodoDueSoon,
			Message: "todo due soon: " + t.Title,
			Metadata: map[string]any{
				"todo_id":  t.ID,
				"due_date": t.DueDate,
			},
		})
		if err != nil {
			if s.log != nil {
				s.log.Errorw("reminder_event_failed", "err", err, "todo_id", t.ID)
			}
			continue // retry on the next sweep
		}
		if err := s.todos.MarkReminded(ctx, t.ID); err != nil && s.log != nil {
			s.log.Errorw("reminder_mark_failed", "err", err, "todo_id", t.ID)
		}
	}
}
