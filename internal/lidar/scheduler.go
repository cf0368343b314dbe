package lidar

import (
	"log"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/banshee-data/botarena/internal/world"
)

// DefaultJoinTimeout bounds how long Stop waits for the worker to exit.
const DefaultJoinTimeout = 2 * time.Second

// SchedulerConfig configures a continuous scan scheduler.
type SchedulerConfig struct {
	// World supplies the per-cycle snapshots. Required at Start.
	World *world.World
	// Engine is the sweep engine; nil means NewEngine(EngineConfig{}).
	Engine *Engine
	// Clock drives the inter-cycle wait; nil means the wall clock.
	Clock clock.Clock
	// Logger is optional; if nil, uses log.Default().
	Logger *log.Logger
	// JoinTimeout bounds Stop; 0 means DefaultJoinTimeout.
	JoinTimeout time.Duration
}

// Scheduler runs the sweep engine on a periodic background worker and
// publishes the latest completed sweep under a lock. Lifecycle:
// idle --Start--> running --Stop--> idle; Start while running is a logged
// no-op. At most one worker is active at a time.
type Scheduler struct {
	engine      *Engine
	wld         *world.World
	clk         clock.Clock
	logger      *log.Logger
	joinTimeout time.Duration

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	latest   Sweep
	scans    uint64
	session  uuid.UUID
	callback func(Sweep)
}

// NewScheduler creates an idle scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	engine := cfg.Engine
	if engine == nil {
		engine = NewEngine(EngineConfig{})
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	joinTimeout := cfg.JoinTimeout
	if joinTimeout <= 0 {
		joinTimeout = DefaultJoinTimeout
	}
	return &Scheduler{
		engine:      engine,
		wld:         cfg.World,
		clk:         clk,
		logger:      logger,
		joinTimeout: joinTimeout,
	}
}

// Engine returns the sweep engine the scheduler drives.
func (s *Scheduler) Engine() *Engine { return s.engine }

// Start spawns the periodic worker at the given frequency, invoking cb (if
// non-nil) once per completed sweep. It fails fast on a non-positive
// frequency or missing world context. Starting while already running is a
// logged no-op, not an error.
func (s *Scheduler) Start(freqHz float64, cb func(Sweep)) error {
	if freqHz <= 0 {
		return errors.Errorf("scan frequency must be positive, got %gHz", freqHz)
	}
	if s.wld == nil {
		return errors.New("scheduler has no world to scan")
	}
	if _, ok := s.wld.Pose(); !ok {
		return errors.New("bot pose not set; place the bot before scanning")
	}

	s.mu.Lock()
	if s.running {
		session := s.session
		s.mu.Unlock()
		s.logger.Printf("lidar: start ignored, already scanning (session %s)", session)
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.latest = nil
	s.scans = 0
	s.session = uuid.New()
	s.callback = cb
	stopCh, doneCh, session := s.stopCh, s.doneCh, s.session
	s.mu.Unlock()

	period := time.Duration(float64(time.Second) / freqHz)
	s.logger.Printf("lidar: continuous scan started at %gHz (session %s)", freqHz, session)
	go s.loop(period, stopCh, doneCh)
	return nil
}

// Stop signals cancellation and joins the worker with a bounded timeout. It
// is idempotent and safe to call at any time, including immediately after
// Start. A join timeout is logged as an anomaly; Stop still returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	session := s.session
	s.mu.Unlock()

	select {
	case <-doneCh:
	case <-s.clk.After(s.joinTimeout):
		s.logger.Printf("lidar: scan worker did not exit within %v (session %s)", s.joinTimeout, session)
		return
	}

	s.mu.Lock()
	completed := s.scans
	s.mu.Unlock()
	s.logger.Printf("lidar: stopped continuous scanning after %d sweeps (session %s)", completed, session)
}

// Latest returns the most recent completed sweep of the current session, or
// nil before its first cycle finishes. The sweep is shared and must not be
// modified; successive calls between cycles return the identical value.
func (s *Scheduler) Latest() Sweep {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// ScanCount returns the number of sweeps completed since the last Start.
func (s *Scheduler) ScanCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scans
}

// Running reports whether the worker is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SessionID identifies the current (or most recent) scan session.
func (s *Scheduler) SessionID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// loop is the worker body. Each cycle sweeps a fresh world snapshot, stores
// the result under the lock (copy-on-publish: the lock is never held across
// the sweep itself), notifies the callback, then waits out the remainder of
// the period with an interruptible timer so Stop takes effect promptly.
func (s *Scheduler) loop(period time.Duration, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		cycleStart := s.clk.Now()
		sweep := s.engine.Sweep(s.wld.Snapshot())

		s.mu.Lock()
		// A worker that outlived its Stop (join timeout) must not publish
		// into a later session: its stop channel is already closed.
		select {
		case <-stopCh:
			s.mu.Unlock()
			return
		default:
		}
		s.latest = sweep
		s.scans++
		cb := s.callback
		s.mu.Unlock()

		if cb != nil {
			s.notify(cb, sweep)
		}

		wait := period - s.clk.Since(cycleStart)
		if wait <= 0 {
			continue
		}
		timer := s.clk.Timer(wait)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// notify isolates observer failures: a panicking callback is logged and
// dropped, never allowed to kill the scan loop.
func (s *Scheduler) notify(cb func(Sweep), sweep Sweep) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("lidar: scan callback panicked: %v", r)
		}
	}()
	cb(sweep)
}
