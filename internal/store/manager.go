// Package store owns engine lifecycles: the in-memory assessment session
// registry with its per-session countdown tickers, the result engine
// registry with its pollers, and the terminal result caches.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/assessment"
)

// SessionManager creates assessment engines and runs one ticker goroutine
// per live session. Tearing a session down cancels its ticker; no tick
// fires after teardown.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	baseCtx  context.Context
	bank     assessment.Bank
	budget   int
	onSubmit assessment.SubmitFunc
	log      zerolog.Logger
}

type sessionEntry struct {
	engine *assessment.Engine
	cancel context.CancelFunc
}

// NewSessionManager creates a manager. Tickers inherit baseCtx, the
// application lifecycle context, so they survive the request that created
// them and die with the process. onSubmit is installed on every engine;
// the Submission it receives identifies the session.
func NewSessionManager(baseCtx context.Context, bank assessment.Bank, budgetSeconds int, onSubmit assessment.SubmitFunc, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*sessionEntry),
		baseCtx:  baseCtx,
		bank:     bank,
		budget:   budgetSeconds,
		onSubmit: onSubmit,
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

// Create mints a new assessment session and starts its countdown ticker.
func (m *SessionManager) Create() *assessment.Engine {
	id := uuid.New().String()
	engine := assessment.NewEngine(id, m.bank, m.budget, m.onSubmit)

	tickCtx, cancel := context.WithCancel(m.baseCtx)

	m.mu.Lock()
	m.sessions[id] = &sessionEntry{engine: engine, cancel: cancel}
	m.mu.Unlock()

	go m.runTicker(tickCtx, engine)

	sessionsStarted.Inc()
	m.log.Info().Str("session_id", id).Msg("Assessment session created")
	return engine
}

// runTicker drives the engine's countdown at one-second granularity until
// the countdown finishes or the session is torn down.
func (m *SessionManager) runTicker(ctx context.Context, engine *assessment.Engine) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !engine.Tick() {
				return
			}
		}
	}
}

// Get returns the engine for a session id.
func (m *SessionManager) Get(id string) (*assessment.Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return entry.engine, true
}

// Teardown destroys a session: its ticker is cancelled and its state
// dropped. Safe to call for unknown ids.
func (m *SessionManager) Teardown(id string) {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		entry.cancel()
		m.log.Info().Str("session_id", id).Msg("Assessment session torn down")
	}
}

// Shutdown cancels every live session ticker.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.sessions {
		entry.cancel()
		delete(m.sessions, id)
	}
}
