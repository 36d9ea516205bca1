package store

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dishalabs/disha-gateway/internal/assessment"
	"github.com/dishalabs/disha-gateway/internal/model"
)

func testManager(t *testing.T) *SessionManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewSessionManager(ctx, assessment.DefaultBank(), 2700, nil, zerolog.Nop())
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	m := testManager(t)

	engine := m.Create()
	require.NotEmpty(t, engine.ID())

	got, ok := m.Get(engine.ID())
	require.True(t, ok)
	assert.Same(t, engine, got)

	_, ok = m.Get("nope")
	assert.False(t, ok)
}

func TestSessionManagerMintsDistinctIDs(t *testing.T) {
	m := testManager(t)
	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestSessionManagerTickerDrivesCountdown(t *testing.T) {
	m := testManager(t)
	engine := m.Create()

	fields, err := engine.CompleteBasicInfo(model.BasicInfo{
		Name:            "Asha",
		Grade:           11,
		Subjects:        []string{"Maths"},
		GuardianContact: "x@example.com",
	})
	require.NoError(t, err)
	require.Empty(t, fields)

	assert.Eventually(t, func() bool {
		return engine.State().RemainingSeconds < 2700
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSessionManagerTeardown(t *testing.T) {
	m := testManager(t)
	engine := m.Create()

	m.Teardown(engine.ID())
	_, ok := m.Get(engine.ID())
	assert.False(t, ok)

	// Unknown ids are a no-op.
	m.Teardown("nope")
}

func TestSessionManagerShutdown(t *testing.T) {
	m := testManager(t)
	a := m.Create()
	b := m.Create()

	m.Shutdown()
	_, okA := m.Get(a.ID())
	_, okB := m.Get(b.ID())
	assert.False(t, okA)
	assert.False(t, okB)
}
