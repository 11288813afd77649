package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fdg312/nutrilog/internal/metrics"
)

// maxFinished bounds how many terminal tasks stay queryable.
const maxFinished = 128

type Logger interface {
	Printf(format string, v ...any)
}

// Job describes one oracle call. Run talks to the oracle; Apply commits the
// result to the store and returns what the task reports as its result.
type Job struct {
	Kind string
	Run  func(ctx context.Context) (any, error)
	// Apply runs only if the task was not discarded meanwhile.
	Apply func(result any) (any, error)
	// FailureMessage replaces oracle error details in the task snapshot.
	FailureMessage string
}

type entry struct {
	task Task
	done chan struct{}
}

// Manager runs at most one pending task per kind.
type Manager struct {
	mu      sync.Mutex
	tasks   map[string]*entry
	order   []string
	pending map[string]string // kind -> task id
	logger  Logger
	now     func() time.Time
}

func NewManager(logger Logger) *Manager {
	return &Manager{
		tasks:   make(map[string]*entry),
		pending: make(map[string]string),
		logger:  logger,
		now:     time.Now,
	}
}

// Start issues job in the background and returns the pending snapshot.
func (m *Manager) Start(job Job) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.pending[job.Kind]; busy {
		return Task{}, ErrBusy
	}

	e := &entry{
		task: Task{
			ID:        uuid.NewString(),
			Kind:      job.Kind,
			State:     StatePending,
			CreatedAt: m.now(),
		},
		done: make(chan struct{}),
	}
	m.tasks[e.task.ID] = e
	m.order = append(m.order, e.task.ID)
	m.pending[job.Kind] = e.task.ID
	m.pruneLocked()

	go m.run(e.task.ID, job)

	return e.task, nil
}

func (m *Manager) run(id string, job Job) {
	started := time.Now()
	result, err := job.Run(context.Background())
	metrics.OracleLatency.WithLabelValues(job.Kind).Observe(time.Since(started).Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[id]
	if !ok || e.task.State != StatePending {
		m.logf("INFO tasks: late result ignored id=%s kind=%s", id, job.Kind)
		return
	}

	switch {
	case err != nil:
		m.logf("WARN tasks: oracle failed id=%s kind=%s err=%v", id, job.Kind, err)
		m.finishLocked(e, StateOracleFailed, job.FailureMessage, nil)
	default:
		applied, applyErr := job.Apply(result)
		switch {
		case applyErr == nil:
			m.finishLocked(e, StateSucceeded, "", applied)
		case errors.Is(applyErr, ErrRejected):
			m.finishLocked(e, StateValidationFailed, applyErr.Error(), nil)
		default:
			m.logf("WARN tasks: apply failed id=%s kind=%s err=%v", id, job.Kind, applyErr)
			m.finishLocked(e, StateOracleFailed, job.FailureMessage, nil)
		}
	}
}

func (m *Manager) finishLocked(e *entry, state State, msg string, result any) {
	now := m.now()
	e.task.State = state
	e.task.Error = msg
	e.task.Result = result
	e.task.FinishedAt = &now
	if m.pending[e.task.Kind] == e.task.ID {
		delete(m.pending, e.task.Kind)
	}
	close(e.done)
	metrics.OracleTasks.WithLabelValues(e.task.Kind, string(state)).Inc()
}

// Discard abandons a pending task; its result will never be applied.
// Discarding a finished task is a no-op.
func (m *Manager) Discard(id string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	if e.task.State == StatePending {
		m.finishLocked(e, StateDiscarded, "", nil)
	}
	return e.task, nil
}

func (m *Manager) Get(id string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return e.task, nil
}

// Pending returns the id of the pending task of kind, if any.
func (m *Manager) Pending(kind string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.pending[kind]
	return id, ok
}

// Wait blocks until the task reaches a terminal state or ctx is done.
func (m *Manager) Wait(ctx context.Context, id string) (Task, error) {
	m.mu.Lock()
	e, ok := m.tasks[id]
	m.mu.Unlock()
	if !ok {
		return Task{}, ErrNotFound
	}

	select {
	case <-e.done:
		return m.Get(id)
	case <-ctx.Done():
		return Task{}, ctx.Err()
	}
}

// pruneLocked drops the oldest terminal tasks beyond maxFinished.
func (m *Manager) pruneLocked() {
	finished := 0
	for _, id := range m.order {
		if m.tasks[id].task.State.Terminal() {
			finished++
		}
	}
	if finished <= maxFinished {
		return
	}

	kept := m.order[:0]
	for _, id := range m.order {
		if finished > maxFinished && m.tasks[id].task.State.Terminal() {
			delete(m.tasks, id)
			finished--
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
}

func (m *Manager) logf(format string, v ...any) {
	if m.logger == nil {
		return
	}
	m.logger.Printf(format, v...)
}
