package metrics

import "sync/atomic"

// InMemory is a Recorder backed by atomic counters.
// Safe for concurrent use; cheap enough for the request path.
type InMemory struct {
	todosCreated atomic.Int64
	todosUpdated atomic.Int64
	todosDeleted atomic.Int64

	userSignups atomic.Int64
	userLogins  atomic.Int64
	userLogouts atomic.Int64

	authSuccesses atomic.Int64
	authFailures  atomic.Int64
}

// NewInMemory creates an in-memory Recorder.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) IncTodoCreated() { m.todosCreated.Add(1) }
func (m *InMemory) IncTodoUpdated() { m.todosUpdated.Add(1) }
func (m *InMemory) IncTodoDeleted() { m.todosDeleted.Add(1) }

func (m *InMemory) IncUserSignup() { m.userSignups.Add(1) }
func (m *InMemory) IncUserLogin()  { m.userLogins.Add(1) }
func (m *InMemory) IncUserLogout() { m.userLogouts.Add(1) }

func (m *InMemory) IncAuthSuccess() { m.authSuccesses.Add(1) }
func (m *InMemory) IncAuthFailure() { m.authFailures.Add(1) }

// Snapshot returns a point-in-time view of all counters.
func (m *InMemory) Snapshot() Snapshot {
	return Snapshot{
		TodosCreated:  m.todosCreated.Load(),
		TodosUpdated:  m.todosUpdated.Load(),
		TodosDeleted:  m.todosDeleted.Load(),
		UserSignups:   m.userSignups.Load(),
		UserLogins:    m.userLogins.Load(),
		UserLogouts:   m.userLogouts.Load(),
		AuthSuccesses: m.authSuccesses.Load(),
		AuthFailures:  m.authFailures.Load(),
	}
}
