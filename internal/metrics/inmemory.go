package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated      uint64
	UsersDeleted      uint64
	TasksCreated      uint64
	TasksUpdated      uint64
	TasksDeleted      uint64
	SavesObserved     uint64
	SaveDurationTotal time.Duration
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersCreated uint64
	usersDeleted uint64
	tasksCreated uint64
	tasksUpdated uint64
	tasksDeleted uint64
	savesCount   uint64
	saveNanos    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:      atomic.LoadUint64(&m.usersCreated),
		UsersDeleted:      atomic.LoadUint64(&m.usersDeleted),
		TasksCreated:      atomic.LoadUint64(&m.tasksCreated),
		TasksUpdated:      atomic.LoadUint64(&m.tasksUpdated),
		TasksDeleted:      atomic.LoadUint64(&m.tasksDeleted),
		SavesObserved:     atomic.LoadUint64(&m.savesCount),
		SaveDurationTotal: time.Duration(atomic.LoadInt64(&m.saveNanos)),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	atomic.AddUint64(&m.usersCreated, 1)
}

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() {
	atomic.AddUint64(&m.usersDeleted, 1)
}

// IncTaskCreated increments the task created counter.
func (m *InMemoryRecorder) IncTaskCreated() {
	atomic.AddUint64(&m.tasksCreated, 1)
}

// IncTaskUpdated increments the task updated counter.
func (m *InMemoryRecorder) IncTaskUpdated() {
	atomic.AddUint64(&m.tasksUpdated, 1)
}

// IncTaskDeleted increments the task deleted counter.
func (m *InMemoryRecorder) IncTaskDeleted() {
	atomic.AddUint64(&m.tasksDeleted, 1)
}

// ObserveSaveDuration records one document save cycle.
func (m *InMemoryRecorder) ObserveSaveDuration(d time.Duration) {
	atomic.AddUint64(&m.savesCount, 1)
	atomic.AddInt64(&m.saveNanos, int64(d))
}
