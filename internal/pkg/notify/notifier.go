package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/rs/zerolog"
)

// RecipientSource loads the users that receive announcements
type RecipientSource interface {
	ListByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
}

// Health describes the notification subsystem
type Health struct {
	Configured  bool       `json:"configured"`
	Ready       bool       `json:"ready"`
	Message     string     `json:"message"`
	Queue       QueueStats `json:"queue"`
	LastSummary *Summary   `json:"lastSummary,omitempty"`
}

// Notifier turns domain events into queued fan-out jobs
type Notifier struct {
	queue  *Queue
	fanout *Fanout
	users  RecipientSource
	logger zerolog.Logger

	mu   sync.RWMutex
	last *Summary
}

// NewNotifier creates a Notifier
func NewNotifier(queue *Queue, fanout *Fanout, users RecipientSource, logger zerolog.Logger) *Notifier {
	return &Notifier{
		queue:  queue,
		fanout: fanout,
		users:  users,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

// NewEventCreated queues an announcement of event to every student. It
// returns ErrQueueFull or ErrQueueClosed when the job cannot be accepted.
func (n *Notifier) NewEventCreated(event *models.Event) error {
	snapshot := *event
	if event.Creator != nil {
		creator := *event.Creator
		snapshot.Creator = &creator
	}
	snapshot.Tags = append([]string(nil), event.Tags...)

	return n.queue.Enqueue(Task{
		Name: "event-created:" + snapshot.ID.String(),
		Run: func(ctx context.Context) error {
			return n.announce(ctx, &snapshot)
		},
	})
}

func (n *Notifier) announce(ctx context.Context, event *models.Event) error {
	users, err := n.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return fmt.Errorf("failed to load notification recipients: %w", err)
	}

	recipients := make([]Recipient, 0, len(users))
	for _, u := range users {
		if u.Email == "" {
			continue
		}
		recipients = append(recipients, Recipient{Email: u.Email, Name: u.FullName})
	}

	summary := n.fanout.NotifyNewEvent(ctx, event, recipients)

	n.mu.Lock()
	n.last = &summary
	n.mu.Unlock()
	return nil
}

// LastSummary returns the most recent fan-out summary, or nil
func (n *Notifier) LastSummary() *Summary {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.last == nil {
		return nil
	}
	s := *n.last
	return &s
}

// Health checks the mail transport and reports queue counters
func (n *Notifier) Health(ctx context.Context) Health {
	h := Health{
		Configured:  n.fanout.sender.Configured(),
		Queue:       n.queue.Stats(),
		LastSummary: n.LastSummary(),
	}

	if !h.Configured {
		h.Message = "Email credentials not set"
		return h
	}

	if err := n.fanout.sender.Verify(ctx); err != nil {
		n.logger.Warn().Err(err).Msg("Email transport verification failed")
		h.Message = err.Error()
		return h
	}

	h.Ready = true
	h.Message = "Email service is ready"
	return h
}
