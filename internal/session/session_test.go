package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/oceanwatch-assistant/internal/domain"
	"github.com/couchcryptid/oceanwatch-assistant/internal/observability"
	"github.com/couchcryptid/oceanwatch-assistant/internal/registry"
)

var ts = time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)

func testCodec() Codec {
	return Codec{KnownTopic: registry.Default().Has, HistoryLimit: 5}
}

func sampleContext() *domain.DialogueContext {
	dc := domain.NewDialogueContext()
	dc.SetTopic(domain.OceanHazards)
	dc.Record("tell me about rip currents", ts, 5)
	dc.Record("what else should i know?", ts.Add(time.Minute), 5)
	dc.UserLocation = &domain.Location{Name: "Puri", Lat: 19.79, Lon: 85.82}
	return dc
}

// --- Codec tests ---

func TestCodec_RoundTrip(t *testing.T) {
	c := testCodec()
	data, err := c.Encode(sampleContext())
	require.NoError(t, err)

	got, err := c.Decode(data)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleContext(), got); diff != "" {
		t.Errorf("decoded context mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{current_topic"},
		{"wrong type", `{"conversation_history": "yesterday"}`},
		{"unknown topic", `{"current_topic": "volcanoes", "conversation_history": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := testCodec().Decode([]byte(tt.data))
			require.ErrorIs(t, err, domain.ErrMalformedContext)
			require.NotNil(t, dc)
			assert.True(t, dc.Fresh())
			assert.Empty(t, dc.History)
		})
	}
}

func TestCodec_DecodeTrimsAndFillsHistory(t *testing.T) {
	dc := domain.NewDialogueContext()
	for i := range 12 {
		dc.Record(fmt.Sprint(i), ts, 100)
	}
	data, err := testCodec().Encode(dc)
	require.NoError(t, err)

	got, err := testCodec().Decode(data)
	require.NoError(t, err)
	require.Len(t, got.History, 5)
	assert.Equal(t, "7", got.History[0].Text)

	got, err = testCodec().Decode([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, got.History)
	assert.True(t, got.Fresh())
}

// --- MemoryStore tests ---

func TestMemoryStore_LoadMissingIsFresh(t *testing.T) {
	m := observability.NewMetricsForTesting()
	s := NewMemoryStore(10, testCodec(), m)

	dc, err := s.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, dc.Fresh())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SessionStore.WithLabelValues("load", "miss")), 0)
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	m := observability.NewMetricsForTesting()
	s := NewMemoryStore(10, testCodec(), m)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "abc", sampleContext()))
	got, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.OceanHazards, got.CurrentTopic)
	assert.Len(t, got.History, 2)

	got.SetTopic(domain.SeaRoutes)
	again, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.OceanHazards, again.CurrentTopic, "loaded contexts are independent copies")

	require.NoError(t, s.Delete(ctx, "abc"))
	gone, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, gone.Fresh())
	assert.Zero(t, s.Len())
	assert.InDelta(t, 2, testutil.ToFloat64(m.SessionStore.WithLabelValues("load", "hit")), 0)
}

func TestMemoryStore_CorruptEntryRecovers(t *testing.T) {
	m := observability.NewMetricsForTesting()
	s := NewMemoryStore(10, testCodec(), m)
	s.cache.put("bad", []byte("garbage"))

	dc, err := s.Load(context.Background(), "bad")
	require.ErrorIs(t, err, domain.ErrMalformedContext)
	assert.True(t, dc.Fresh())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SessionStore.WithLabelValues("load", "error")), 0)
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	s := NewMemoryStore(2, testCodec(), observability.NewMetricsForTesting())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", sampleContext()))
	require.NoError(t, s.Save(ctx, "b", sampleContext()))
	_, _ = s.Load(ctx, "a")
	require.NoError(t, s.Save(ctx, "c", sampleContext()))

	assert.Equal(t, 2, s.Len())
	b, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, b.Fresh(), "b was least recently used and should have been evicted")
	a, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, a.Fresh())
}

func TestMemoryStore_Ready(t *testing.T) {
	assert.NoError(t, NewMemoryStore(0, testCodec(), observability.NewMetricsForTesting()).CheckReadiness(context.Background()))
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", []byte("A"))
	c.put("b", []byte("B"))

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A"), v)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("A1"))
	c.put("a", []byte("A2"))

	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("A2"), v)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_DeleteHeadAndTail(t *testing.T) {
	c := newLRUCache(3)
	c.put("a", []byte("A"))
	c.put("b", []byte("B"))
	c.put("c", []byte("C"))

	c.delete("c") // head
	c.delete("a") // tail
	c.delete("missing")

	assert.Equal(t, 1, c.len())
	c.put("d", []byte("D"))
	c.put("e", []byte("E"))
	c.put("f", []byte("F")) // evicts "b"

	_, ok := c.get("b")
	assert.False(t, ok)
}

// --- RedisStore tests (no server) ---

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStore_Unreachable(t *testing.T) {
	m := observability.NewMetricsForTesting()
	s := NewRedisStore(unreachableRedis(t), time.Hour, testCodec(), m)
	ctx := context.Background()

	_, err := s.Load(ctx, "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session abc")

	err = s.Save(ctx, "abc", sampleContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session abc")

	require.Error(t, s.Delete(ctx, "abc"))
	require.Error(t, s.CheckReadiness(ctx))
	assert.InDelta(t, 1, testutil.ToFloat64(m.SessionStore.WithLabelValues("save", "error")), 0)
}

func TestOpenRedis(t *testing.T) {
	client, err := OpenRedis("redis://localhost:6379/2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, 2, client.Options().DB)

	_, err = OpenRedis("http://nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse redis url")
}

func TestKeyPrefix(t *testing.T) {
	assert.Equal(t, "oceanwatch:session:abc", key("abc"))
}
