package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hearthhq/hearth/internal/model"
	"github.com/hearthhq/hearth/internal/store"
)

// reminderHour is the UTC hour of the daily open-todos reminder.
const reminderHour = 9

// Scheduler periodically checks for notifications to send.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	push     *store.PushStore
	todos    *store.TodoStore
	interval time.Duration
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a notification scheduler.
func NewScheduler(svc *Service, pushStore *store.PushStore, todoStore *store.TodoStore, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  svc,
		push:     pushStore,
		todos:    todoStore,
		interval: 60 * time.Second,
		logger:   logger.With("component", "push"),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick() {
	if !s.service.Enabled() {
		return
	}

	householdIDs, err := s.push.ListHouseholdIDs()
	if err != nil {
		s.logger.Error("list households", "error", err)
		return
	}

	for _, hid := range householdIDs {
		s.checkOpenTodos(hid)
	}
}

// checkOpenTodos sends the daily open-task reminder. The sent-notification
// record keyed by date keeps it to one per household per day.
func (s *Scheduler) checkOpenTodos(householdID int64) {
	now := time.Now().UTC()
	if now.Hour() != reminderHour || now.Minute() != 0 {
		return
	}

	refID := fmt.Sprintf("todos-open-%s", now.Format("2006-01-02"))
	sent, err := s.push.WasSent(householdID, model.NotifTypeTodosOpen, refID)
	if err != nil || sent {
		return
	}

	count, err := s.todos.CountOpen(householdID)
	if err != nil {
		s.logger.Error("count open todos", "error", err)
		return
	}
	if count == 0 {
		return
	}

	body := fmt.Sprintf("You have %d open todos today", count)
	if count == 1 {
		body = "You have 1 open todo today"
	}

	s.broadcast(householdID, 0, Payload{
		Title: "Todo Reminders",
		Body:  body,
		URL:   "/",
		Tag:   "todos-daily",
	})

	if err := s.push.RecordSent(householdID, model.NotifTypeTodosOpen, refID); err != nil {
		s.logger.Error("record sent notification", "error", err)
	}
}

// SendTodoAssigned notifies household members that a todo was assigned.
// Called from the todo handlers, not from the scheduler loop.
func (s *Scheduler) SendTodoAssigned(householdID, excludeUserID int64, title, assignee string) {
	if !s.service.Enabled() {
		return
	}

	s.broadcast(householdID, excludeUserID, Payload{
		Title: "New Todo",
		Body:  fmt.Sprintf("%s was assigned to %s", title, assignee),
		URL:   "/",
		Tag:   "todo-assigned",
	})
}

// broadcast sends a payload to every subscription in the household except
// the excluded user's, pruning subscriptions the push service reports gone.
func (s *Scheduler) broadcast(householdID, excludeUserID int64, payload Payload) {
	subs, err := s.push.ListByHousehold(householdID)
	if err != nil {
		s.logger.Error("list subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if excludeUserID != 0 && sub.UserID == excludeUserID {
			continue
		}
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.push.DeleteByEndpoint(sub.Endpoint)
			} else {
				s.logger.Error("send push", "error", err)
			}
		}
	}
}
