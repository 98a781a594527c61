// Package scheduler drives the background download state machine whose state
// is shown and toggled by the status dashboards.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mouton0815/tile-explorer/internal/status"
)

// DownloadState is the scheduler's phase as shown in the dashboard.
type DownloadState string

const (
	// StateInactive means the scheduler is idle until toggled on.
	StateInactive DownloadState = "Inactive"
	// StateActivities means activity metadata is being downloaded.
	StateActivities DownloadState = "Activities"
	// StateTracks means activity tracks are being downloaded.
	StateTracks DownloadState = "Tracks"
)

// Toggle flips between inactive and the first download phase.
func (s DownloadState) Toggle() DownloadState {
	if s == StateInactive {
		return StateActivities
	}
	return StateInactive
}

// ErrUnauthorized is returned by Toggle when the server holds no
// authorization; downloading cannot be enabled then.
var ErrUnauthorized = errors.New("scheduler: not authorized")

// Task performs one unit of background work for the current state and
// returns the state to continue with. A task returning StateInactive ends
// the download run.
type Task func(ctx context.Context, current DownloadState) (DownloadState, error)

// Config configures a Scheduler.
type Config struct {
	Interval time.Duration
	Task     Task
	Bus      *status.Bus
	Logger   *slog.Logger
}

// Scheduler owns the download state, the activity statistics and the
// authorized flag, and publishes a status update on every change.
type Scheduler struct {
	interval time.Duration
	task     Task
	bus      *status.Bus
	log      *slog.Logger

	mu         sync.Mutex
	state      DownloadState
	stats      status.ActivityStats
	authorized bool
}

// New creates an inactive scheduler.
func New(cfg Config) *Scheduler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Scheduler{
		interval: interval,
		task:     cfg.Task,
		bus:      cfg.Bus,
		log:      log,
		state:    StateInactive,
	}
}

// Run executes the scheduler loop until the context is cancelled. While the
// state is active, the task runs once per interval tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == StateInactive || s.task == nil {
		return
	}

	next, err := s.task(ctx, state)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.log.Warn("download task failed, stop downloading", "state", state, "error", err)
		next = StateInactive
	}
	if next != state {
		s.setState(next)
	}
}

// Toggle flips the download state and returns the new state. It fails with
// ErrUnauthorized when the server holds no authorization.
func (s *Scheduler) Toggle() (DownloadState, error) {
	s.mu.Lock()
	if !s.authorized {
		s.mu.Unlock()
		return StateInactive, ErrUnauthorized
	}
	s.state = s.state.Toggle()
	state := s.state
	s.mu.Unlock()

	s.log.Info("download state toggled", "state", state)
	s.publish()
	return state, nil
}

// SetAuthorized records whether the server holds a valid authorization.
func (s *Scheduler) SetAuthorized(authorized bool) {
	s.mu.Lock()
	changed := s.authorized != authorized
	s.authorized = authorized
	s.mu.Unlock()
	if changed {
		s.publish()
	}
}

// MergeStats folds new download statistics into the totals.
func (s *Scheduler) MergeStats(delta status.ActivityStats) {
	s.mu.Lock()
	s.stats.Merge(delta)
	s.mu.Unlock()
	s.publish()
}

// Status returns the current server status for the dashboards.
func (s *Scheduler) Status() status.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return status.ServerStatus{
		Authorized:    s.authorized,
		DownloadState: string(s.state),
		ActivityStats: s.stats,
	}
}

func (s *Scheduler) setState(state DownloadState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.log.Info("download state changed", "state", state)
	s.publish()
}

func (s *Scheduler) publish() {
	if s.bus != nil {
		s.bus.Publish(s.Status())
	}
}
