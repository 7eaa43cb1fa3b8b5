// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Todo lifecycle metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()

	// Account metrics
	IncUserSignup()
	IncUserLogin()
	IncUserLogout()

	// Auth middleware outcomes
	IncAuthSuccess()
	IncAuthFailure()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot is a point-in-time view of all counters.
type Snapshot struct {
	TodosCreated int64
	TodosUpdated int64
	TodosDeleted int64

	UserSignups int64
	UserLogins  int64
	UserLogouts int64

	AuthSuccesses int64
	AuthFailures  int64
}
