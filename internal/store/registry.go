package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/model"
	"github.com/dishalabs/disha-gateway/internal/result"
)

// ResultRegistry owns result engines, keyed by session id. Remote sessions
// use the backend-issued id; local (fallback-only) sessions get a minted
// one. Starting the same session id twice returns the existing engine, so
// resolution is idempotent.
type ResultRegistry struct {
	mu       sync.Mutex
	engines  map[string]*result.Engine
	baseCtx  context.Context
	client   result.StatusClient
	interval time.Duration
	cache    result.Cache
	log      zerolog.Logger
}

// NewResultRegistry creates a registry. Poll loops inherit baseCtx, the
// application lifecycle context. client may be nil when no backend is
// configured; every session then resolves locally.
func NewResultRegistry(baseCtx context.Context, client result.StatusClient, pollInterval time.Duration, cache result.Cache, log zerolog.Logger) *ResultRegistry {
	return &ResultRegistry{
		engines:  make(map[string]*result.Engine),
		baseCtx:  baseCtx,
		client:   client,
		interval: pollInterval,
		cache:    cache,
		log:      log.With().Str("component", "result_registry").Logger(),
	}
}

// StartRemote begins (or resumes) resolution of a backend-issued session
// id. fallback is served if the backend becomes unusable.
func (r *ResultRegistry) StartRemote(sessionID string, fallback *model.AnalysisResult) *result.Engine {
	return r.start(sessionID, r.client, fallback)
}

// StartLocal creates a session that resolves immediately with the
// fallback payload. Used when no analysis backend is configured.
func (r *ResultRegistry) StartLocal(fallback *model.AnalysisResult) *result.Engine {
	return r.start("local-"+uuid.New().String(), nil, fallback)
}

func (r *ResultRegistry) start(sessionID string, client result.StatusClient, fallback *model.AnalysisResult) *result.Engine {
	r.mu.Lock()
	if existing, ok := r.engines[sessionID]; ok {
		r.mu.Unlock()
		return existing
	}

	engine := result.NewEngine(sessionID, client, r.interval, fallback, r.cache, r.log)
	r.engines[sessionID] = engine
	r.mu.Unlock()

	engine.Start(r.baseCtx)
	return engine
}

// Get returns the engine for a session id.
func (r *ResultRegistry) Get(sessionID string) (*result.Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	engine, ok := r.engines[sessionID]
	return engine, ok
}

// Cancel stops a session's poll loop. The engine stays registered so a
// later read still sees its last state.
func (r *ResultRegistry) Cancel(sessionID string) bool {
	r.mu.Lock()
	engine, ok := r.engines[sessionID]
	r.mu.Unlock()

	if ok {
		engine.Stop()
	}
	return ok
}

// Shutdown stops every poll loop.
func (r *ResultRegistry) Shutdown() {
	r.mu.Lock()
	engines := make([]*result.Engine, 0, len(r.engines))
	for _, e := range r.engines {
		engines = append(engines, e)
	}
	r.mu.Unlock()

	for _, e := range engines {
		e.Stop()
	}
}
