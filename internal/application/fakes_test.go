package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(ctx context.Context) bool {
		return ctx != nil
	})
}

func mockAnyMovement() interface{} {
	return mock.AnythingOfType("domain.Movement")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memoryStore struct {
	mu      sync.Mutex
	values  map[string]string
	putErr  error
	readErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return "", s.readErr
	}
	value, ok := s.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return value, nil
}

func (s *memoryStore) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.values[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *memoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

type fakeLink struct {
	mu sync.Mutex

	connected  bool
	helloSent  bool
	connectErr error
	// connectSucceeds controls whether Connect flips the link to connected.
	connectSucceeds bool
	sendErr         error

	connects  int
	hellos    int
	closes    int
	sequences []string
	acks      []string
	doors     []string
	positions []domain.Place
	sink      ports.MessageSink
}

func (l *fakeLink) Connect(_ context.Context, sink ports.MessageSink) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects++
	l.sink = sink
	if l.connectErr != nil {
		return l.connectErr
	}
	if l.connectSucceeds {
		l.connected = true
	}
	return nil
}

func (l *fakeLink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *fakeLink) State() domain.SessionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	phase := domain.PhaseDisconnected
	if l.connected {
		phase = domain.PhaseConnected
	}
	return domain.SessionState{Phase: phase, HelloSent: l.helloSent, Battery: domain.BatteryUnknown}
}

func (l *fakeLink) SendSequence(_ context.Context, wire string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ports.ErrNotConnected
	}
	if l.sendErr != nil {
		return l.sendErr
	}
	l.sequences = append(l.sequences, wire)
	return nil
}

func (l *fakeLink) SendControllerConnected(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.connected {
		return ports.ErrNotConnected
	}
	if !l.helloSent {
		l.helloSent = true
		l.hellos++
	}
	return nil
}

func (l *fakeLink) SendAck(_ context.Context, wire string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.acks = append(l.acks, wire)
	return nil
}

func (l *fakeLink) SendDoor(_ context.Context, index int, action domain.DoorAction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.doors = append(l.doors, fmt.Sprintf("%d:%s", index, action))
	return nil
}

func (l *fakeLink) SendPosition(_ context.Context, place domain.Place) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.positions = append(l.positions, place)
	return nil
}

func (l *fakeLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closes++
	l.connected = false
	l.helloSent = false
	return nil
}

func (l *fakeLink) sent() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.sequences...)
}

func (l *fakeLink) setConnected(connected bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connected = connected
}

type countingPrompter struct {
	mu    sync.Mutex
	shown int
}

func (p *countingPrompter) ShowReconnectPrompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown++
}

func (p *countingPrompter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shown
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
