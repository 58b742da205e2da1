package application

import (
	"slices"
	"sync"
	"time"

	"github.com/ericfisherdev/accountdesk/internal/domain/model"
)

// DefaultNotificationTimeout applies to notifications added without a timeout.
const DefaultNotificationTimeout = 3 * time.Second

// NotificationStore is a queue of transient messages. Each message is removed
// automatically once its timeout elapses, or earlier via Remove.
type NotificationStore struct {
	mu             sync.Mutex
	notifications  []model.Notification
	timers         map[int]*time.Timer
	nextID         int
	defaultTimeout time.Duration
	closed         bool
}

// NewNotificationStore creates an empty NotificationStore. A non-positive
// defaultTimeout falls back to DefaultNotificationTimeout.
func NewNotificationStore(defaultTimeout time.Duration) *NotificationStore {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultNotificationTimeout
	}
	return &NotificationStore{
		timers:         make(map[int]*time.Timer),
		defaultTimeout: defaultTimeout,
	}
}

// Add queues n with a fresh id and schedules its removal. Any ID on n is
// ignored. It returns the assigned id.
func (s *NotificationStore) Add(n model.Notification) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.nextID
	s.nextID++
	if n.Timeout <= 0 {
		n.Timeout = s.defaultTimeout
	}
	s.notifications = append(s.notifications, n)

	if !s.closed {
		id := n.ID
		s.timers[id] = time.AfterFunc(n.Timeout, func() { s.Remove(id) })
	}
	return n.ID
}

// Success queues a success message with the default timeout.
func (s *NotificationStore) Success(message string) int {
	return s.Add(model.Notification{Message: message, Type: model.NotificationSuccess})
}

// Error queues an error message with the default timeout.
func (s *NotificationStore) Error(message string) int {
	return s.Add(model.Notification{Message: message, Type: model.NotificationError})
}

// Info queues an informational message with the default timeout.
func (s *NotificationStore) Info(message string) int {
	return s.Add(model.Notification{Message: message, Type: model.NotificationInfo})
}

// Remove drops the notification with the given id. Unknown ids are ignored.
func (s *NotificationStore) Remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.notifications = slices.DeleteFunc(s.notifications, func(n model.Notification) bool {
		return n.ID == id
	})
}

// List returns the queued notifications, oldest first.
func (s *NotificationStore) List() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notifications)
}

// Close stops all pending expiry timers. Notifications added afterwards are
// kept until removed manually.
func (s *NotificationStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.closed = true
}
