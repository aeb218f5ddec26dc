// Package session owns the client state for one open view and runs the
// status poller, upload flow and query flow against the chat service.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gwi.com/dalal-chat/internal/chat"
)

// Backend is the remote document chat service. *service.Client satisfies it.
type Backend interface {
	Status(ctx context.Context) (chat.BotStatus, error)
	Upload(ctx context.Context, files []chat.PendingFile) ([]string, error)
	Query(ctx context.Context, query string) (chat.Reply, error)
}

const DefaultPollInterval = 5 * time.Second

type Option func(*Session)

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func WithGreeting(greeting string) Option {
	return func(s *Session) {
		s.state = chat.NewState(greeting)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type Session struct {
	backend      Backend
	pollInterval time.Duration
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	flows  sync.WaitGroup

	mu      sync.Mutex
	state   chat.State
	started bool
	closed  bool
	updates chan chat.State
}

func New(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend:      backend,
		pollInterval: DefaultPollInterval,
		logger:       zap.NewNop(),
		state:        chat.NewState(""),
		updates:      make(chan chat.State, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.group, s.ctx = errgroup.WithContext(s.ctx)
	return s
}

// Start launches the status poller. It polls immediately, then every poll
// interval until ctx is done or Close is called.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, s.cancel)
	s.group.Go(func() error {
		defer stop()
		s.pollLoop(s.ctx)
		return nil
	})
}

// Close stops the poller, cancels in-flight requests and waits for every
// session goroutine to return.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	return s.group.Wait()
}

// Wait blocks until no upload or query is in flight.
func (s *Session) Wait() {
	s.flows.Wait()
}

// State returns the current snapshot.
func (s *Session) State() chat.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Updates delivers the latest snapshot after each change. Only the newest
// pending snapshot is kept, so a slow reader never blocks the session.
func (s *Session) Updates() <-chan chat.State {
	return s.updates
}

// dispatch applies ev and publishes the result. Callers must hold s.mu.
func (s *Session) dispatch(ev chat.Event) {
	next := chat.Reduce(s.state, ev)
	next.Version = s.state.Version + 1
	s.state = next

	select {
	case <-s.updates:
	default:
	}
	s.updates <- s.state
}

func (s *Session) apply(ev chat.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(ev)
}

// run starts a request flow in the session's goroutine group.
func (s *Session) run(fn func(ctx context.Context)) {
	s.flows.Add(1)
	s.group.Go(func() error {
		defer s.flows.Done()
		fn(s.ctx)
		return nil
	})
}
