package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/email"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Status is the overall outcome of a fan-out
type Status string

const (
	StatusNotConfigured        Status = "not_configured"
	StatusNoRecipients         Status = "no_recipients"
	StatusTransportUnavailable Status = "transport_unavailable"
	StatusRenderFailed         Status = "render_failed"
	StatusCompleted            Status = "completed"
)

// Recipient is an addressee of a notification
type Recipient struct {
	Email string
	Name  string
}

// Failure records a single undelivered message
type Failure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// Summary aggregates the outcome of one fan-out
type Summary struct {
	EventID        string    `json:"eventId"`
	Status         Status    `json:"status"`
	Sent           int       `json:"sent"`
	Failed         int       `json:"failed"`
	Total          int       `json:"total"`
	TransportError string    `json:"transportError,omitempty"`
	Failures       []Failure `json:"failures,omitempty"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// Message describes the summary in one line
func (s Summary) Message() string {
	switch s.Status {
	case StatusNotConfigured:
		return "Email credentials not configured"
	case StatusNoRecipients:
		return "No users to notify"
	case StatusTransportUnavailable:
		return "Email transport unavailable: " + s.TransportError
	case StatusRenderFailed:
		return "Failed to render notification: " + s.TransportError
	default:
		return fmt.Sprintf("Emails sent: %d/%d", s.Sent, s.Total)
	}
}

// FanoutConfig tunes delivery
type FanoutConfig struct {
	Concurrency         int
	PerRecipientTimeout time.Duration
}

// Fanout delivers a new-event announcement to many recipients. Each delivery
// is independent; one failure never stops the others.
type Fanout struct {
	sender   email.Sender
	renderer *email.TemplateRenderer
	cfg      FanoutConfig
	logger   zerolog.Logger
}

// NewFanout creates a Fanout
func NewFanout(sender email.Sender, renderer *email.TemplateRenderer, cfg FanoutConfig, logger zerolog.Logger) *Fanout {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PerRecipientTimeout <= 0 {
		cfg.PerRecipientTimeout = 15 * time.Second
	}
	return &Fanout{
		sender:   sender,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger.With().Str("component", "notify_fanout").Logger(),
	}
}

// NotifyNewEvent announces event to recipients and reports what happened. It
// never returns an error.
func (f *Fanout) NotifyNewEvent(ctx context.Context, event *models.Event, recipients []Recipient) Summary {
	summary := Summary{
		EventID:   event.ID.String(),
		Total:     len(recipients),
		StartedAt: time.Now(),
	}
	defer func() { f.log(summary) }()

	if !f.sender.Configured() {
		summary.Status = StatusNotConfigured
		summary.Total = 0
		summary.FinishedAt = time.Now()
		return summary
	}

	if len(recipients) == 0 {
		summary.Status = StatusNoRecipients
		summary.FinishedAt = time.Now()
		return summary
	}

	if err := f.sender.Verify(ctx); err != nil {
		summary.Status = StatusTransportUnavailable
		summary.Failed = len(recipients)
		summary.TransportError = err.Error()
		summary.FinishedAt = time.Now()
		return summary
	}

	rendered, err := f.renderer.RenderNewEvent(event)
	if err != nil {
		summary.Status = StatusRenderFailed
		summary.Failed = len(recipients)
		summary.TransportError = err.Error()
		summary.FinishedAt = time.Now()
		return summary
	}

	var (
		mu       sync.Mutex
		sent     int
		failures []Failure
	)

	var g errgroup.Group
	g.SetLimit(f.cfg.Concurrency)
	for _, r := range recipients {
		g.Go(func() error {
			err := f.deliver(ctx, rendered.For(r.Email, r.Name))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, Failure{Email: r.Email, Error: err.Error()})
				f.logger.Warn().Err(err).Str("toEmail", r.Email).Msg("Failed to send event notification")
				return nil
			}
			sent++
			return nil
		})
	}
	_ = g.Wait()

	summary.Status = StatusCompleted
	summary.Sent = sent
	summary.Failed = len(failures)
	summary.Failures = failures
	summary.FinishedAt = time.Now()
	return summary
}

// deliver sends one message under its own timeout. A panicking sender is
// reported as that recipient's failure.
func (f *Fanout) deliver(ctx context.Context, msg email.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	sendCtx, cancel := context.WithTimeout(ctx, f.cfg.PerRecipientTimeout)
	defer cancel()

	return f.sender.Send(sendCtx, msg)
}

func (f *Fanout) log(s Summary) {
	evt := f.logger.Info()
	if s.Status == StatusTransportUnavailable || s.Status == StatusRenderFailed {
		evt = f.logger.Error()
	} else if s.Status == StatusNotConfigured {
		evt = f.logger.Warn()
	}
	evt.Str("eventId", s.EventID).
		Str("status", string(s.Status)).
		Int("sent", s.Sent).
		Int("failed", s.Failed).
		Int("total", s.Total).
		Dur("took", s.FinishedAt.Sub(s.StartedAt)).
		Msg(s.Message())
}
