package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/email"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeSender struct {
	configured bool
	verifyErr  error
	failFor    map[string]error
	panicFor   string

	mu   sync.Mutex
	sent []email.Message
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Verify(context.Context) error { return f.verifyErr }

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if msg.To == f.panicFor {
		panic("transport blew up")
	}
	if err := f.failFor[msg.To]; err != nil {
		return err
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	return nil
}

type fakeUsers struct {
	users []*models.User
	err   error
}

func (f *fakeUsers) ListByRole(_ context.Context, role models.RoleType) ([]*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func testEvent() *models.Event {
	return &models.Event{
		ID:       uuid.New(),
		Title:    "Robotics Expo",
		Date:     time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC),
		Category: models.CategoryTech,
	}
}

func newTestFanout(sender email.Sender) *Fanout {
	return NewFanout(sender, email.NewTemplateRenderer("http://localhost:5173", nil),
		FanoutConfig{Concurrency: 2, PerRecipientTimeout: time.Second}, zerolog.Nop())
}

func recipients(addrs ...string) []Recipient {
	out := make([]Recipient, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, Recipient{Email: a})
	}
	return out
}

func TestFanoutNotConfigured(t *testing.T) {
	sender := &fakeSender{}
	s := newTestFanout(sender).NotifyNewEvent(context.Background(), testEvent(), recipients("a@x.edu"))

	if s.Status != StatusNotConfigured {
		t.Fatalf("status = %s, want %s", s.Status, StatusNotConfigured)
	}
	if s.Sent != 0 || s.Failed != 0 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if len(sender.sent) != 0 {
		t.Fatal("messages sent without credentials")
	}
}

func TestFanoutNoRecipients(t *testing.T) {
	s := newTestFanout(&fakeSender{configured: true}).NotifyNewEvent(context.Background(), testEvent(), nil)
	if s.Status != StatusNoRecipients || s.Total != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestFanoutPartialFailure(t *testing.T) {
	sender := &fakeSender{
		configured: true,
		failFor:    map[string]error{"b@x.edu": errors.New("mailbox unavailable")},
	}
	s := newTestFanout(sender).NotifyNewEvent(context.Background(), testEvent(), recipients("a@x.edu", "b@x.edu", "c@x.edu"))

	if s.Status != StatusCompleted {
		t.Fatalf("status = %s", s.Status)
	}
	if s.Sent != 2 || s.Failed != 1 || s.Total != 3 {
		t.Fatalf("counts = %d sent / %d failed / %d total, want 2/1/3", s.Sent, s.Failed, s.Total)
	}
	if len(s.Failures) != 1 || s.Failures[0].Email != "b@x.edu" {
		t.Fatalf("failures = %+v", s.Failures)
	}
	if s.Message() != "Emails sent: 2/3" {
		t.Fatalf("message = %q", s.Message())
	}
	for _, m := range sender.sent {
		if m.Subject != "New Event: Robotics Expo" {
			t.Fatalf("subject = %q", m.Subject)
		}
	}
}

func TestFanoutSenderPanicIsIsolated(t *testing.T) {
	sender := &fakeSender{configured: true, panicFor: "b@x.edu"}
	s := newTestFanout(sender).NotifyNewEvent(context.Background(), testEvent(), recipients("a@x.edu", "b@x.edu", "c@x.edu"))

	if s.Status != StatusCompleted {
		t.Fatalf("status = %s", s.Status)
	}
	if s.Sent != 2 || s.Failed != 1 || s.Total != 3 {
		t.Fatalf("counts = %d sent / %d failed / %d total, want 2/1/3", s.Sent, s.Failed, s.Total)
	}
	if len(s.Failures) != 1 || s.Failures[0].Email != "b@x.edu" || s.Failures[0].Error != "panic: transport blew up" {
		t.Fatalf("failures = %+v", s.Failures)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("delivered %d messages, want 2", len(sender.sent))
	}
}

func TestFanoutTransportUnavailable(t *testing.T) {
	sender := &fakeSender{configured: true, verifyErr: errors.New("dial tcp: connection refused")}
	s := newTestFanout(sender).NotifyNewEvent(context.Background(), testEvent(), recipients("a@x.edu", "b@x.edu"))

	if s.Status != StatusTransportUnavailable {
		t.Fatalf("status = %s", s.Status)
	}
	if s.Failed != 2 || s.Total != 2 || s.TransportError == "" {
		t.Fatalf("unexpected summary %+v", s)
	}
	if len(sender.sent) != 0 {
		t.Fatal("messages sent despite failed preflight")
	}
}

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(QueueConfig{Workers: 2, Size: 4, JobTimeout: time.Second}, zerolog.Nop())
	q.Start()

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		if err := q.Enqueue(Task{Name: "t", Run: func(context.Context) error {
			ran.Add(1)
			return nil
		}}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	if err := q.Enqueue(Task{Name: "boom", Run: func(context.Context) error { panic("boom") }}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if ran.Load() != 3 {
		t.Fatalf("ran = %d, want 3", ran.Load())
	}
	stats := q.Stats()
	if stats.Enqueued != 4 || stats.Processed != 3 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if err := q.Enqueue(Task{Name: "late", Run: func(context.Context) error { return nil }}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Enqueue after Stop: err = %v, want ErrQueueClosed", err)
	}
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	// Not started, so nothing drains the buffer.
	q := NewQueue(QueueConfig{Workers: 1, Size: 1}, zerolog.Nop())
	noop := Task{Name: "noop", Run: func(context.Context) error { return nil }}

	if err := q.Enqueue(noop); err != nil {
		t.Fatalf("first Enqueue: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(noop) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQueueFull) {
			t.Fatalf("err = %v, want ErrQueueFull", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	if q.Stats().Dropped != 1 {
		t.Fatalf("dropped = %d, want 1", q.Stats().Dropped)
	}
}

func TestNotifierAnnouncesToStudents(t *testing.T) {
	sender := &fakeSender{configured: true}
	users := &fakeUsers{users: []*models.User{
		{ID: uuid.New(), Email: "admin@x.edu", Role: models.RoleAdmin},
		{ID: uuid.New(), Email: "s1@x.edu", FullName: "S One", Role: models.RoleStudent},
		{ID: uuid.New(), Email: "s2@x.edu", Role: models.RoleStudent},
	}}
	q := NewQueue(QueueConfig{Workers: 1, Size: 2, JobTimeout: time.Second}, zerolog.Nop())
	q.Start()
	n := NewNotifier(q, newTestFanout(sender), users, zerolog.Nop())

	if err := n.NewEventCreated(testEvent()); err != nil {
		t.Fatalf("NewEventCreated: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := q.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	last := n.LastSummary()
	if last == nil {
		t.Fatal("no summary recorded")
	}
	if last.Sent != 2 || last.Total != 2 {
		t.Fatalf("summary = %+v, want 2 of 2 sent", last)
	}
	for _, m := range sender.sent {
		if m.To == "admin@x.edu" {
			t.Fatal("admin received a student announcement")
		}
	}
}

func TestNotifierRecipientLoadFailure(t *testing.T) {
	q := NewQueue(QueueConfig{Workers: 1, Size: 1, JobTimeout: time.Second}, zerolog.Nop())
	q.Start()
	n := NewNotifier(q, newTestFanout(&fakeSender{configured: true}), &fakeUsers{err: errors.New("db down")}, zerolog.Nop())

	if err := n.NewEventCreated(testEvent()); err != nil {
		t.Fatalf("NewEventCreated: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = q.Stop(ctx)

	if q.Stats().Failed != 1 {
		t.Fatalf("failed = %d, want 1", q.Stats().Failed)
	}
	if n.LastSummary() != nil {
		t.Fatal("summary recorded for a failed job")
	}
}

func TestNotifierHealth(t *testing.T) {
	q := NewQueue(QueueConfig{Workers: 1, Size: 1}, zerolog.Nop())

	h := NewNotifier(q, newTestFanout(&fakeSender{}), &fakeUsers{}, zerolog.Nop()).Health(context.Background())
	if h.Configured || h.Ready || h.Message != "Email credentials not set" {
		t.Fatalf("unconfigured health = %+v", h)
	}

	h = NewNotifier(q, newTestFanout(&fakeSender{configured: true, verifyErr: errors.New("auth failed")}), &fakeUsers{}, zerolog.Nop()).Health(context.Background())
	if !h.Configured || h.Ready || h.Message != "auth failed" {
		t.Fatalf("failing health = %+v", h)
	}

	h = NewNotifier(q, newTestFanout(&fakeSender{configured: true}), &fakeUsers{}, zerolog.Nop()).Health(context.Background())
	if !h.Ready || h.Message != "Email service is ready" {
		t.Fatalf("ready health = %+v", h)
	}
}
