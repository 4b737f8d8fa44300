// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking of the running ones.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(logger)
//
//	err := jm.Start(ctx, "cooldown-sweeper", func(ctx context.Context) error {
//	    // do work until ctx is cancelled
//	    return nil
//	})
//
//	// on shutdown
//	jm.StopAll()
//	jm.Wait()
//
// No retries and no persistence: a job that returns is gone.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Job is a running unit of work. Jobs are added and removed by Manager.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	wg     sync.WaitGroup
	logger zerolog.Logger
}

// NewManager creates a Manager that logs job lifecycle events to logger.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		jobs:   make(map[string]*Job),
		logger: logger,
	}
}

// Start runs runner in its own goroutine under a context derived from parent.
// Starting a name that is already running is an error. A job that ends with
// context.Canceled is reported as stopped, not failed.
func (m *Manager) Start(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		return fmt.Errorf("job '%s' is already running", name)
	}
	ctx, cancel := context.WithCancel(parent)
	job := &Job{Name: name, Cancel: cancel}
	m.jobs[name] = job
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer cancel()

		m.logger.Debug().Str("job", name).Msg("job running")
		err := runner(ctx)
		switch {
		case err == nil:
			m.logger.Debug().Str("job", name).Msg("job done")
		case errors.Is(err, context.Canceled):
			m.logger.Debug().Str("job", name).Msg("job stopped")
		default:
			m.logger.Error().Err(err).Str("job", name).Msg("job failed")
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}
	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
}

// Wait blocks until every started job has returned.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// List returns the names of running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of running jobs, e.g.
// "Running jobs: cooldown-sweeper, metrics".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}
