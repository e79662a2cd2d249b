package store

import (
	"context"
	"sync"

	"github.com/DomeLiquid/dsc/core"
	"github.com/gofrs/uuid"
)

// EventStore records engine events in commit order.
type EventStore struct {
	mu     sync.RWMutex
	events []*core.Event
}

var _ core.EventSink = (*EventStore)(nil)

func NewEventStore() *EventStore {
	return &EventStore{}
}

func (s *EventStore) HandleEvent(ctx context.Context, event *core.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *event
	s.events = append(s.events, &cp)
}

// ListEvents returns events of userId (any user if uuid.Nil) and action (any
// if zero), created at or before createdBeforeAt when it is positive, newest
// first, at most limit when limit is positive.
func (s *EventStore) ListEvents(ctx context.Context, userId uuid.UUID, action core.ActionType, createdBeforeAt, limit int64) ([]*core.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*core.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		evt := s.events[i]
		if userId != uuid.Nil && evt.UserId != userId {
			continue
		}
		if action != 0 && evt.Action != action {
			continue
		}
		if createdBeforeAt > 0 && evt.CreatedAt > createdBeforeAt {
			continue
		}
		cp := *evt
		out = append(out, &cp)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (s *EventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
