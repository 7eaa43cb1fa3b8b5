package metrics

// Noop is a Recorder that discards all events.
type Noop struct{}

// NewNoop creates a no-op Recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (Noop) IncTodoCreated() {}
func (Noop) IncTodoUpdated() {}
func (Noop) IncTodoDeleted() {}

func (Noop) IncUserSignup() {}
func (Noop) IncUserLogin()  {}
func (Noop) IncUserLogout() {}

func (Noop) IncAuthSuccess() {}
func (Noop) IncAuthFailure() {}
