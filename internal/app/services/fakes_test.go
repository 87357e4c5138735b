package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the three repositories. It keeps
// attendee counts in step with the RSVP set the way the SQL transactions do.
type memStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*models.User
	events map[uuid.UUID]*models.Event
	rsvps  map[[2]uuid.UUID]*models.RSVP
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		users:  make(map[uuid.UUID]*models.User),
		events: make(map[uuid.UUID]*models.Event),
		rsvps:  make(map[[2]uuid.UUID]*models.RSVP),
	}
}

func (m *memStore) addUser(name, email string, role models.RoleType) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.New(), FullName: name, Email: email, Role: role, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addEvent(title string, creator uuid.UUID) *models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &models.Event{ID: uuid.New(), Title: title, CreatedBy: creator, Category: models.CategoryOthers, Tags: []string{}}
	m.events[e.ID] = e
	return e
}

func (m *memStore) attendeeCount(eventID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID].AttendeeCount
}

func (m *memStore) rsvpCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rsvps)
}

type users memStore

func (u *users) Create(_ context.Context, user *models.User) error {
	m := (*memStore)(u)
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (u *users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m := (*memStore)(u)
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m := (*memStore)(u)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type events memStore

func (e *events) Create(_ context.Context, event *models.Event) error {
	m := (*memStore)(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "event.create" {
		return apperrors.ErrCreatorNotFound
	}
	if _, ok := m.users[event.CreatedBy]; !ok {
		return apperrors.ErrCreatorNotFound
	}
	event.ID = uuid.New()
	event.CreatedAt = time.Now()
	stored := *event
	m.events[event.ID] = &stored
	return nil
}

func (e *events) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	m := (*memStore)(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (e *events) List(_ context.Context, filter models.EventFilter) ([]*models.Event, error) {
	m := (*memStore)(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Event{}
	for _, event := range m.events {
		if filter.Category != nil && event.Category != *filter.Category {
			continue
		}
		if filter.CreatedBy != nil && event.CreatedBy != *filter.CreatedBy {
			continue
		}
		copied := *event
		out = append(out, &copied)
	}
	return out, nil
}

type rsvps memStore

func (r *rsvps) Toggle(_ context.Context, userID, eventID uuid.UUID) (models.ToggleResult, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok {
		return models.ToggleResult{}, apperrors.ErrEventNotFound
	}
	if _, ok := m.users[userID]; !ok {
		return models.ToggleResult{}, apperrors.ErrUserNotFound
	}
	key := [2]uuid.UUID{userID, eventID}
	if _, ok := m.rsvps[key]; ok {
		delete(m.rsvps, key)
		event.AttendeeCount--
		return models.ToggleResult{Action: models.ToggleRemoved, AttendeeCount: event.AttendeeCount}, nil
	}
	m.rsvps[key] = &models.RSVP{ID: uuid.New(), UserID: userID, EventID: eventID, Status: models.RSVPStatusYes, CreatedAt: time.Now()}
	event.AttendeeCount++
	return models.ToggleResult{Action: models.ToggleCreated, Attending: true, AttendeeCount: event.AttendeeCount}, nil
}

func (r *rsvps) Create(_ context.Context, userID, eventID uuid.UUID) (*models.RSVP, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[eventID]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	key := [2]uuid.UUID{userID, eventID}
	if _, ok := m.rsvps[key]; ok {
		return nil, apperrors.ErrAlreadyRSVPed
	}
	rsvp := &models.RSVP{ID: uuid.New(), UserID: userID, EventID: eventID, Status: models.RSVPStatusYes, CreatedAt: time.Now()}
	m.rsvps[key] = rsvp
	event.AttendeeCount++
	return rsvp, nil
}

func (r *rsvps) Exists(_ context.Context, userID, eventID uuid.UUID) (bool, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rsvps[[2]uuid.UUID{userID, eventID}]
	return ok, nil
}

func (r *rsvps) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.RSVP, error) {
	m := (*memStore)(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.RSVP{}
	for key, rsvp := range m.rsvps {
		if key[0] == userID {
			copied := *rsvp
			copied.Event = m.events[key[1]]
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []*models.Event
	err    error
}

func (n *fakeNotifier) NewEventCreated(event *models.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type published struct {
	msgType string
	eventID string
	payload interface{}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
}

func (p *fakePublisher) Publish(msgType, eventID string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, published{msgType, eventID, payload})
}
