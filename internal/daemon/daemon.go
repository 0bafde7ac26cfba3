// Package daemon runs the periodic feed-polling loop: on every tick it
// asks the engine for newly announced versions, downloads them, and
// persists state. The loop sleeps in small chunks so a stop request is
// honored within seconds rather than at interval boundaries.
package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rosvault/rosvault/pkg/logger"
)

var (
	// ErrAlreadyRunning is returned when Start is called twice.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Stop is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrStopTimeout is returned when the loop does not exit within the
	// stop timeout. The loop keeps its cooperative stop signal and will
	// still exit at the next check point.
	ErrStopTimeout = errors.New("daemon stop timed out")
)

const (
	// DefaultInterval is the feed polling period.
	DefaultInterval = 15 * time.Minute

	// defaultSleepChunk bounds the stop latency during the sleep phase.
	defaultSleepChunk = 5 * time.Second
)

// State is the scheduler lifecycle state.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopRequested
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopRequested:
		return "stop requested"
	default:
		return "unknown"
	}
}

// Engine is the slice of the download engine the scheduler drives.
type Engine interface {
	// ScanFeed returns newly announced versions not yet in state.
	ScanFeed(ctx context.Context) ([]string, error)

	// ProcessVersion downloads one version's artifact matrix.
	ProcessVersion(ctx context.Context, version string) (bool, error)

	// SaveState persists discovered versions and counters.
	SaveState()
}

// Scheduler owns the cancellable polling loop. One scheduler drives one
// engine; single-instance enforcement across processes is the PID
// marker's job in the CLI layer, not the scheduler's.
type Scheduler struct {
	engine   Engine
	log      logger.Logger
	interval time.Duration

	// sleepChunk is overridable in tests to keep them fast.
	sleepChunk time.Duration

	mu    sync.Mutex
	state State
	stop  chan struct{}
	done  chan struct{}
}

// New creates a scheduler polling at the given interval, or
// DefaultInterval when interval is not positive.
func New(engine Engine, log logger.Logger, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Scheduler{
		engine:     engine,
		log:        log,
		interval:   interval,
		sleepChunk: defaultSleepChunk,
	}
}

// Start spawns the polling loop. It refuses with ErrAlreadyRunning
// unless the scheduler is fully stopped.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.state = StateStarting
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	// Running must be set before the loop spawns: with an already
	// canceled context the loop can finish first, and its final
	// Stopped must not be overwritten afterwards.
	s.state = StateRunning
	s.mu.Unlock()

	go s.run(ctx)

	s.log.Info("Daemon started (checking feed every %s)", s.interval)
	return nil
}

// Stop sets the cooperative stop signal and waits for the loop to exit,
// up to timeout. A zero timeout waits indefinitely.
func (s *Scheduler) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StateStopRequested
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	s.log.Info("Stopping daemon...")
	if timeout <= 0 {
		<-done
	} else {
		select {
		case <-done:
		case <-time.After(timeout):
			return ErrStopTimeout
		}
	}
	s.log.Info("Daemon stopped")
	return nil
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	st := s.State()
	return st == StateRunning || st == StateStopRequested
}

// Done exposes the loop's completion channel for callers that block
// until shutdown.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.state = StateStopped
		close(s.done)
		s.mu.Unlock()
	}()

	for {
		s.tick(ctx)
		if !s.sleep(ctx) {
			return
		}
	}
}

// tick performs one discovery/download/persist cycle. Every failure is
// isolated: the loop always reaches the next tick.
func (s *Scheduler) tick(ctx context.Context) {
	delta, err := s.engine.ScanFeed(ctx)
	if err != nil {
		// Already logged by the engine; empty delta, wait for next tick.
		return
	}
	if len(delta) == 0 {
		s.log.Info("No new versions found in feed")
		return
	}

	for _, v := range delta {
		if s.stopRequested() || ctx.Err() != nil {
			break
		}
		s.log.Info("Daemon downloading new version %s", v)
		if _, err := s.engine.ProcessVersion(ctx, v); err != nil {
			s.log.Warning("processing %s interrupted: %v", v, err)
			break
		}
	}
	s.engine.SaveState()
}

// sleep waits out the polling interval in small chunks, returning false
// as soon as a stop is requested or the context ends.
func (s *Scheduler) sleep(ctx context.Context) bool {
	deadline := time.Now().Add(s.interval)
	for time.Now().Before(deadline) {
		chunk := s.sleepChunk
		if remaining := time.Until(deadline); remaining < chunk {
			chunk = remaining
		}
		t := time.NewTimer(chunk)
		select {
		case <-s.stop:
			t.Stop()
			return false
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
	return true
}

func (s *Scheduler) stopRequested() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}
