package conversation

import (
	"log/slog"
	"sync"
)

// Memory is the process-wide conversation store, keyed by user identifier.
// Each user keeps at most `window` turns; older turns age out on append.
// Entries live for the process lifetime; there is no teardown path.
type Memory struct {
	logger *slog.Logger
	window int

	mu    sync.Mutex
	users map[string]*userState
}

type userState struct {
	turnLock sync.Mutex // serializes one in-flight request per user
	turns    []Turn
}

// NewMemory creates a Memory retaining the last window turns per user.
func NewMemory(log *slog.Logger, window int) *Memory {
	if log == nil {
		log = slog.Default()
	}
	if window <= 0 {
		window = 1
	}
	return &Memory{
		logger: log.With(slog.String("service", "memory")),
		window: window,
		users:  make(map[string]*userState),
	}
}

// Window returns the configured retention bound K.
func (m *Memory) Window() int {
	return m.window
}

func (m *Memory) state(userID string) *userState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.users[userID]
	if !ok {
		st = &userState{}
		m.users[userID] = st
	}
	return st
}

// Acquire takes the per-user turn lock and returns its release function.
// The pipeline holds it for the whole request so that the user-turn and
// assistant-turn appends of concurrent requests for the same user never
// interleave.
func (m *Memory) Acquire(userID string) (release func()) {
	st := m.state(userID)
	st.turnLock.Lock()
	return st.turnLock.Unlock
}

// Append adds a turn to the user's history and truncates to the last
// window entries, oldest dropped first.
func (m *Memory) Append(userID string, turn Turn) {
	st := m.state(userID)

	m.mu.Lock()
	defer m.mu.Unlock()
	st.turns = append(st.turns, turn)
	if over := len(st.turns) - m.window; over > 0 {
		st.turns = append(st.turns[:0:0], st.turns[over:]...)
	}
}

// ContextFor returns a snapshot of the user's retained turns in
// chronological order, or nil for an unseen user. The snapshot is a copy;
// mutating it does not affect the store.
func (m *Memory) ContextFor(userID string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.users[userID]
	if !ok || len(st.turns) == 0 {
		return nil
	}
	out := make([]Turn, len(st.turns))
	copy(out, st.turns)
	return out
}
