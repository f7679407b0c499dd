package blog

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLatency is the simulated round trip of GetPost and GetPosts.
const DefaultLatency = time.Second

// Unsubscribe removes an observer. Calling it more than once is a no-op.
type Unsubscribe func()

type subscription struct {
	id     uuid.UUID
	fn     func(State)
	active atomic.Bool
}

// Service owns the posts State, broadcasts every change to its subscribers
// and loads posts from a Source.
//
// Observers are called synchronously while the broadcast lock is held. They
// may call Unsubscribe but must not call SetState, Update or Subscribe.
type Service struct {
	log     *zap.Logger
	source  Source
	latency time.Duration
	sleep   func(time.Duration)

	// broadcast serialises writes and subscriptions so observers see values
	// in the order they were produced.
	broadcast sync.Mutex

	mu    sync.RWMutex
	state State
	subs  []*subscription
}

type Option func(*Service)

func WithSource(src Source) Option {
	return func(s *Service) { s.source = src }
}

func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithSleep replaces the timer used to simulate latency.
func WithSleep(fn func(time.Duration)) Option {
	return func(s *Service) { s.sleep = fn }
}

func NewService(opts ...Option) *Service {
	s := &Service{
		log:     zap.NewNop(),
		source:  SampleSource(),
		latency: DefaultLatency,
		sleep:   time.Sleep,
		state:   initialState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns a copy of the current value. Changing it does not change
// the service.
func (s *Service) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Posts = slices.Clone(st.Posts)
	return st
}

// SetState merges partials over the current value and notifies every
// subscriber, even when no partials are given.
func (s *Service) SetState(partials ...Partial) {
	s.broadcast.Lock()
	defer s.broadcast.Unlock()

	s.mu.Lock()
	next := s.state.merge(partials)
	s.state = next
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.notify(next, subs)
}

// Update runs fn against the latest value and applies the partials it
// returns. No partials means no change and nothing is broadcast.
func (s *Service) Update(fn func(State) []Partial) {
	s.broadcast.Lock()
	defer s.broadcast.Unlock()

	partials := fn(s.GetState())
	if len(partials) == 0 {
		return
	}

	s.mu.Lock()
	next := s.state.merge(partials)
	s.state = next
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	s.notify(next, subs)
}

// Subscribe registers fn and calls it with the current value before
// returning.
func (s *Service) Subscribe(fn func(State)) Unsubscribe {
	s.broadcast.Lock()
	defer s.broadcast.Unlock()

	sub := &subscription{id: uuid.New(), fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	current := s.state
	s.mu.Unlock()

	s.log.Debug("subscribed", zap.Stringer("subscription", sub.id))
	fn(current)

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		s.subs = slices.DeleteFunc(s.subs, func(o *subscription) bool {
			return o.id == sub.id
		})
		s.mu.Unlock()
		s.log.Debug("unsubscribed", zap.Stringer("subscription", sub.id))
	}
}

func (s *Service) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

func (s *Service) notify(st State, subs []*subscription) {
	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(st)
		}
	}
}
