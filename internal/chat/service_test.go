package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/oceanwatch-assistant/internal/assistant"
	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
	"github.com/couchcryptid/oceanwatch-assistant/internal/session"
)

func newTestService(t *testing.T, store session.Store, historyLimit int) (*Service, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := assistant.New(registry.Default(), nil, assistant.Config{
		HistoryLimit: historyLimit,
		Clock:        clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)),
		Picker:       assistant.NewSeededPicker(1),
	}, logger, m)
	if store == nil {
		store = session.NewMemoryStore(100, session.Codec{KnownTopic: registry.Default().Has, HistoryLimit: historyLimit}, m)
	}
	return NewService(engine, store, logger, m), m
}

func TestService_CarriesTopicAcrossTurns(t *testing.T) {
	svc, _ := newTestService(t, nil, 20)
	ctx := context.Background()

	first, err := svc.Process(ctx, "s1", "tell me about rip currents")
	require.NoError(t, err)
	assert.Equal(t, domain.RouteScored, first.Route)

	second, err := svc.Process(ctx, "s1", "what else should i know?")
	require.NoError(t, err)
	assert.Equal(t, domain.RouteFollowUp, second.Route)
	assert.Equal(t, "s1", second.SessionID)

	dc, err := svc.Context(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.OceanHazards, dc.CurrentTopic)
	assert.Len(t, dc.History, 2)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc, _ := newTestService(t, nil, 20)
	ctx := context.Background()

	_, err := svc.Process(ctx, "a", "tell me about rip currents")
	require.NoError(t, err)

	turn, err := svc.Process(ctx, "b", "what else should i know?")
	require.NoError(t, err)
	assert.NotEqual(t, domain.RouteFollowUp, turn.Route, "session b has no topic")
}

func TestService_MintsSessionID(t *testing.T) {
	svc, _ := newTestService(t, nil, 20)

	turn, err := svc.Process(context.Background(), "", "hello")
	require.NoError(t, err)
	_, err = uuid.Parse(turn.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, domain.IntentGreeting, turn.Intent)
}

func TestService_SerializesTurnsOfOneSession(t *testing.T) {
	const turns = 40
	svc, _ := newTestService(t, nil, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range turns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Process(ctx, "shared", fmt.Sprintf("turn %d", i))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	dc, err := svc.Context(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, dc.History, turns, "no turn may be lost to a concurrent save")
	assert.Zero(t, svc.locks.size(), "idle session locks are released")
}

func TestService_Reset(t *testing.T) {
	svc, _ := newTestService(t, nil, 20)
	ctx := context.Background()

	_, err := svc.Process(ctx, "s1", "best places to visit")
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, "s1"))

	dc, err := svc.Context(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, dc.Fresh())
	assert.Empty(t, dc.History)
}

type fakeStore struct {
	loadErr  error
	saveErr  error
	readyErr error
	saved    *domain.DialogueContext
}

func (f *fakeStore) Load(context.Context, string) (*domain.DialogueContext, error) {
	if f.loadErr != nil && !errors.Is(f.loadErr, domain.ErrMalformedContext) {
		return nil, f.loadErr
	}
	return domain.NewDialogueContext(), f.loadErr
}

func (f *fakeStore) Save(_ context.Context, _ string, dc *domain.DialogueContext) error {
	f.saved = dc
	return f.saveErr
}

func (f *fakeStore) Delete(context.Context, string) error { return f.saveErr }

func (f *fakeStore) CheckReadiness(context.Context) error { return f.readyErr }

func TestService_MalformedContextResets(t *testing.T) {
	store := &fakeStore{loadErr: fmt.Errorf("%w: bad json", domain.ErrMalformedContext)}
	svc, m := newTestService(t, store, 20)

	turn, err := svc.Process(context.Background(), "s1", "tsunami")
	require.NoError(t, err)
	assert.Equal(t, domain.OceanHazards, turn.Domain)
	require.NotNil(t, store.saved)
	assert.Len(t, store.saved.History, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ContextResets), 0)
}

func TestService_StoreErrors(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{loadErr: errors.New("connection refused")}, 20)
	_, err := svc.Process(context.Background(), "s1", "tsunami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	svc, _ = newTestService(t, &fakeStore{saveErr: errors.New("read only")}, 20)
	_, err = svc.Process(context.Background(), "s1", "tsunami")
	require.Error(t, err)
	assert.Error(t, svc.Reset(context.Background(), "s1"))
}

func TestService_Readiness(t *testing.T) {
	svc, _ := newTestService(t, &fakeStore{readyErr: errors.New("down")}, 20)
	assert.Error(t, svc.CheckReadiness(context.Background()))

	svc, _ = newTestService(t, nil, 20)
	assert.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestService_Classify(t *testing.T) {
	svc, _ := newTestService(t, nil, 20)
	c := svc.Classify("cyclone warning for the harbour")
	assert.Equal(t, domain.SeaRoutes, c.TopDomain)
}
