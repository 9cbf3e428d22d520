package generation

import (
	"sync"
)

// State is the lifecycle position of a Session.
type State int

const (
	Idle State = iota
	Generating
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the generation state owned by one caller, such as a wizard
// run. It replaces a process-wide busy flag: Busy is true exactly while an
// Orchestrator holds the session.
type Session struct {
	mu     sync.Mutex
	state  State
	result string
	err    error
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a generation is in flight.
func (s *Session) Busy() bool {
	return s.State() == Generating
}

// Result returns the outcome of the last finished generation.
func (s *Session) Result() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result, s.err
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Generating {
		return ErrBusy
	}
	s.state = Generating
	s.result = ""
	s.err = nil
	return nil
}

func (s *Session) succeed(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Succeeded
	s.result = text
	s.err = nil
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Failed
	s.result = ""
	s.err = err
}

// release moves a session that is still generating to Failed. It runs on
// every exit path of Generate, including a panicking Caller.
func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Generating {
		s.state = Failed
		s.err = errAborted
	}
}
