package result

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// StatusClient issues one status query for a session id. Satisfied by
// *Client; tests substitute stubs.
type StatusClient interface {
	FetchStatus(ctx context.Context, sessionID string) (*StatusUpdate, error)
}

// Cache stores terminal result sessions so re-resolving the same session
// id yields the same payload without touching the backend again.
// Implementations live in the store package.
type Cache interface {
	Get(ctx context.Context, sessionID string) (*model.ResultSession, bool)
	Put(ctx context.Context, session model.ResultSession)
}

// progressStep is added to the displayed estimate on every non-terminal
// poll response; the estimate never reaches 100 before a terminal state.
const (
	progressStart = 10
	progressStep  = 7
	progressCap   = 95
)

// Engine resolves one session id into a terminal analysis result. It owns
// the poll loop against the status endpoint, degrades to the bundled
// fallback payload on any transport or server failure, and guarantees that
// no scheduled callback mutates state after Stop.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	client    StatusClient
	interval  time.Duration
	fallback  *model.AnalysisResult
	cache     Cache
	log       zerolog.Logger

	status   model.ResultStatus
	estimate int
	payload  *model.AnalysisResult
	errMsg   string

	stopped  bool
	cancel   context.CancelFunc
	done     chan struct{}
	watchers map[chan model.ResultSession]struct{}
}

// NewEngine creates an engine in the Pending state. fallback is the
// deterministic payload substituted when the backend is unusable; it must
// not be nil.
func NewEngine(sessionID string, client StatusClient, interval time.Duration, fallback *model.AnalysisResult, cache Cache, log zerolog.Logger) *Engine {
	return &Engine{
		sessionID: sessionID,
		client:    client,
		interval:  interval,
		fallback:  fallback,
		cache:     cache,
		log:       log.With().Str("component", "result_engine").Str("session_id", sessionID).Logger(),
		status:    model.ResultStatusPending,
		done:      make(chan struct{}),
		watchers:  make(map[chan model.ResultSession]struct{}),
	}
}

// Start begins resolution. With no session id (or no client configured)
// the engine resolves synchronously with the fallback payload before Start
// returns. Otherwise the poll loop runs until a terminal state or Stop.
func (e *Engine) Start(ctx context.Context) {
	if e.sessionID == "" || e.client == nil {
		e.complete(context.Background(), e.fallback)
		close(e.done)
		return
	}

	// A previously resolved terminal session short-circuits the loop.
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, e.sessionID); ok && isTerminal(cached.Status) {
			e.adopt(cached)
			close(e.done)
			return
		}
	}

	pollCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	go e.run(pollCtx)
}

// run is the poll loop: one in-flight query at a time, a fixed delay
// between queries, terminal states stop the loop.
func (e *Engine) run(ctx context.Context) {
	defer close(e.done)

	// First query fires immediately; subsequent ones after the delay.
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		pollsIssued.Inc()
		update, err := e.client.FetchStatus(ctx, e.sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// Transport or decode failure: the user still gets a useful
			// result, just not a backend-produced one.
			e.log.Warn().Err(err).Msg("Status query failed, serving fallback")
			e.complete(ctx, e.fallback)
			return
		}

		switch update.Status {
		case model.ResultStatusCompleted:
			payload := update.Results
			if payload == nil {
				payload = e.fallback
			}
			e.complete(ctx, payload)
			return
		case model.ResultStatusFailed:
			e.fail(ctx, update.Error)
			return
		default:
			// Still pending/processing: nudge the estimate and go again.
			e.advanceEstimate()
			timer.Reset(e.interval)
		}
	}
}

// Stop tears the engine down. Idempotent; after Stop returns no scheduled
// callback will mutate state, and all watcher channels are closed.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	cancel := e.cancel
	for ch := range e.watchers {
		close(ch)
		delete(e.watchers, ch)
	}
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Done is closed when the poll loop has fully exited.
func (e *Engine) Done() <-chan struct{} { return e.done }

// SessionID returns the id this engine resolves. Immutable after creation.
func (e *Engine) SessionID() string { return e.sessionID }

// Snapshot returns the current result session state.
func (e *Engine) Snapshot() model.ResultSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Watch subscribes to state changes. The returned channel receives a
// snapshot on every transition and is closed on terminal state or Stop.
// The unsubscribe function is safe to call more than once.
func (e *Engine) Watch() (<-chan model.ResultSession, func()) {
	ch := make(chan model.ResultSession, 8)

	e.mu.Lock()
	if e.stopped || isTerminal(e.status) {
		// Deliver the final state immediately so late subscribers still
		// see the terminal payload.
		ch <- e.snapshotLocked()
		close(ch)
		e.mu.Unlock()
		return ch, func() {}
	}
	e.watchers[ch] = struct{}{}
	ch <- e.snapshotLocked()
	e.mu.Unlock()

	unsubscribe := func() {
		e.mu.Lock()
		if _, ok := e.watchers[ch]; ok {
			delete(e.watchers, ch)
			close(ch)
		}
		e.mu.Unlock()
	}
	return ch, unsubscribe
}

// ─── State transitions ──────────────────────────────────────────────

// complete transitions into Completed. No-op after Stop or once terminal.
func (e *Engine) complete(ctx context.Context, payload *model.AnalysisResult) {
	e.mu.Lock()
	if e.stopped || isTerminal(e.status) {
		e.mu.Unlock()
		return
	}
	e.status = model.ResultStatusCompleted
	e.payload = payload
	e.estimate = 100
	snap := e.snapshotLocked()
	e.notifyLocked(snap, true)
	e.mu.Unlock()

	if e.cache != nil {
		e.cache.Put(ctx, snap)
	}
	if payload.Source == model.ResultSourceFallback {
		fallbacksServed.Inc()
	}
	e.log.Info().Str("source", payload.Source).Msg("Result session completed")
}

// fail transitions into Failed with the backend-reported error, verbatim.
func (e *Engine) fail(ctx context.Context, errMsg string) {
	if errMsg == "" {
		errMsg = "Analysis failed."
	}

	e.mu.Lock()
	if e.stopped || isTerminal(e.status) {
		e.mu.Unlock()
		return
	}
	e.status = model.ResultStatusFailed
	e.errMsg = errMsg
	snap := e.snapshotLocked()
	e.notifyLocked(snap, true)
	e.mu.Unlock()

	if e.cache != nil {
		e.cache.Put(ctx, snap)
	}
	e.log.Warn().Str("error", errMsg).Msg("Result session failed")
}

// advanceEstimate bumps the displayed progress monotonically, capped below
// 100 until a terminal state is reached.
func (e *Engine) advanceEstimate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped || isTerminal(e.status) {
		return
	}

	if e.status == model.ResultStatusPending {
		e.status = model.ResultStatusProcessing
		e.estimate = progressStart
	} else if e.estimate+progressStep < progressCap {
		e.estimate += progressStep
	} else {
		e.estimate = progressCap
	}
	e.notifyLocked(e.snapshotLocked(), false)
}

// adopt installs a cached terminal session.
func (e *Engine) adopt(cached *model.ResultSession) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	e.status = cached.Status
	e.estimate = cached.ProgressEstimate
	e.payload = cached.Payload
	e.errMsg = cached.Error
	e.notifyLocked(e.snapshotLocked(), true)
}

func (e *Engine) snapshotLocked() model.ResultSession {
	return model.ResultSession{
		SessionID:        e.sessionID,
		Status:           e.status,
		ProgressEstimate: e.estimate,
		Payload:          e.payload,
		Error:            e.errMsg,
	}
}

// notifyLocked fans a snapshot out to watchers; terminal snapshots also
// close the channels. Slow watchers are skipped rather than blocked on.
func (e *Engine) notifyLocked(snap model.ResultSession, terminal bool) {
	for ch := range e.watchers {
		select {
		case ch <- snap:
		default:
		}
		if terminal {
			close(ch)
			delete(e.watchers, ch)
		}
	}
}

func isTerminal(status model.ResultStatus) bool {
	return status == model.ResultStatusCompleted || status == model.ResultStatusFailed
}
