package events

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultMaxStreams bounds how many calculation runs a store remembers
const DefaultMaxStreams = 1000

// InMemoryEventStore keeps the most recent streams in memory. Subscribers
// are notified synchronously after the append, outside the store lock.
type InMemoryEventStore struct {
	streams     map[string][]Event
	streamOrder []string
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	maxStreams  int
	logger      logrus.FieldLogger
}

// NewInMemoryEventStore creates a store holding up to DefaultMaxStreams runs
func NewInMemoryEventStore() *InMemoryEventStore {
	return NewInMemoryEventStoreWithConfig(DefaultMaxStreams, nil)
}

// NewInMemoryEventStoreWithConfig creates a store that evicts the oldest
// stream once maxStreams is exceeded. A nil logger discards handler errors.
func NewInMemoryEventStoreWithConfig(maxStreams int, logger logrus.FieldLogger) *InMemoryEventStore {
	if maxStreams < 1 {
		maxStreams = DefaultMaxStreams
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		streamOrder: make([]string, 0),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		maxStreams:  maxStreams,
		logger:      logger,
	}
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	if _, exists := s.streams[streamID]; !exists {
		s.streams[streamID] = make([]Event, 0)
		s.streamOrder = append(s.streamOrder, streamID)
		s.evictLocked()
	}

	eventWithVersion := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], eventWithVersion)
	s.allEvents = append(s.allEvents, eventWithVersion)
	handlers := append([]EventHandler(nil), s.subscribers[event.Type()]...)

	s.mutex.Unlock()

	s.notifySubscribers(handlers, eventWithVersion)
	return nil
}

// evictLocked drops the oldest streams beyond the limit; the caller holds the lock
func (s *InMemoryEventStore) evictLocked() {
	for len(s.streamOrder) > s.maxStreams {
		oldest := s.streamOrder[0]
		s.streamOrder = s.streamOrder[1:]
		delete(s.streams, oldest)

		kept := make([]Event, 0, len(s.allEvents))
		for _, e := range s.allEvents {
			if e.StreamID() != oldest {
				kept = append(kept, e)
			}
		}
		s.allEvents = kept
	}
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events, exists := s.streams[streamID]
	if !exists {
		return []Event{}, nil
	}

	if fromVersion < 1 {
		fromVersion = 1
	}

	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}

	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}

	return nil
}

func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		newHandlers := make([]EventHandler, 0)
		for _, h := range handlers {
			if h != handler {
				newHandlers = append(newHandlers, h)
			}
		}
		s.subscribers[eventType] = newHandlers
	}

	return nil
}

func (s *InMemoryEventStore) notifySubscribers(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"event_type": event.Type(),
				"stream_id":  event.StreamID(),
			}).WithError(err).Warn("event handler failed")
		}
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)
