package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDialogueContext_IsFresh(t *testing.T) {
	c := NewDialogueContext()
	assert.True(t, c.Fresh())
	assert.Empty(t, c.History)
	assert.Nil(t, c.UserLocation)

	c.SetTopic(OceanHazards)
	assert.False(t, c.Fresh())
	assert.Equal(t, OceanHazards, c.CurrentTopic)
}

func TestDialogueContext_RecordCapsHistory(t *testing.T) {
	c := NewDialogueContext()
	start := time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

	for i := range 5 {
		c.Record(fmt.Sprintf("turn %d", i), start.Add(time.Duration(i)*time.Minute), 3)
	}

	require.Len(t, c.History, 3)
	assert.Equal(t, "turn 2", c.History[0].Text)
	assert.Equal(t, "turn 4", c.History[2].Text)
	assert.Equal(t, start.Add(4*time.Minute), c.History[2].Timestamp)
}

func TestDialogueContext_RecordDefaultLimit(t *testing.T) {
	c := NewDialogueContext()
	for i := range DefaultHistoryLimit + 7 {
		c.Record(fmt.Sprint(i), time.Time{}, 0)
	}
	assert.Len(t, c.History, DefaultHistoryLimit)
}

func TestDialogueContext_Trim(t *testing.T) {
	c := &DialogueContext{History: make([]Turn, 50)}
	c.Trim(10)
	assert.Len(t, c.History, 10)
}

func TestDialogueContext_JSONShape(t *testing.T) {
	ts := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	c := NewDialogueContext()
	c.SetTopic(BeachTourism)
	c.Record("best beaches", ts, 5)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"current_topic": "beach_tourism",
		"conversation_history": [{"text": "best beaches", "timestamp": "2024-04-26T15:10:00Z"}]
	}`, string(data))
}

func TestNewUtterance_Normalizes(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  What should I do during a TSUNAMI?  ", "what should i do during a tsunami?"},
		{"\t\n", ""},
		{"ＴＳＵＮＡＭＩ", "tsunami"}, // full-width letters fold under NFKC
		{"Rip Currents", "rip currents"},
	}

	for _, tt := range tests {
		u := NewUtterance(tt.raw)
		assert.Equal(t, tt.raw, u.Raw)
		assert.Equal(t, tt.want, u.Normalized)
	}

	assert.True(t, NewUtterance("   ").Empty())
}

func TestDataType_Supported(t *testing.T) {
	for _, dt := range DataTypes() {
		assert.True(t, dt.Supported(), dt)
	}
	assert.False(t, DataType("salinity").Supported())
}

func TestNow_UsesPackageClock(t *testing.T) {
	fixed := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, fixed, Now())
	assert.Equal(t, fixed, Clock().Now())
}
