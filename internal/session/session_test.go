package session

import (
	"sync"
	"testing"
	"time"

	"flight-assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateIsEmpty(t *testing.T) {
	s := NewState("a")

	_, ok := s.Prediction()
	assert.False(t, ok)
	assert.Empty(t, s.History())
	assert.Equal(t, model.DefaultFlightQuery(), s.Snapshot().Query)
}

func TestAppendExchangeWithoutPrediction(t *testing.T) {
	s := NewState("a")

	err := s.AppendExchange("hi", "hello")

	assert.ErrorIs(t, err, ErrNoPrediction)
	assert.Empty(t, s.History())
}

func TestAppendExchangeOrder(t *testing.T) {
	s := NewState("a")
	s.ApplyPrediction(model.PredictionResult{DelayRisk: "High", DelayProbability: 0.73})

	require.NoError(t, s.AppendExchange("Should I book this flight?", "Consider alternatives."))

	assert.Equal(t, []model.ChatTurn{
		{Speaker: model.SpeakerUser, Text: "Should I book this flight?"},
		{Speaker: model.SpeakerAssistant, Text: "Consider alternatives."},
	}, s.History())
}

func TestApplyPredictionClearsHistory(t *testing.T) {
	s := NewState("a")
	pred := model.PredictionResult{DelayRisk: "Low", DelayProbability: 0.1}
	s.ApplyPrediction(pred)
	require.NoError(t, s.AppendExchange("q1", "a1"))
	require.NoError(t, s.AppendExchange("q2", "a2"))
	require.Len(t, s.History(), 4)

	// identical prediction still opens a new epoch
	s.ApplyPrediction(pred)

	assert.Empty(t, s.History())
	got, ok := s.Prediction()
	assert.True(t, ok)
	assert.Equal(t, pred, got)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewState("a")
	s.ApplyPrediction(model.PredictionResult{DelayRisk: "High", DelayProbability: 0.5})
	require.NoError(t, s.AppendExchange("q", "a"))

	snap := s.Snapshot()
	snap.History[0].Text = "changed"
	snap.Prediction.DelayRisk = "changed"

	assert.Equal(t, "q", s.History()[0].Text)
	got, _ := s.Prediction()
	assert.Equal(t, "High", got.DelayRisk)
}

func TestAcquireSerializesActions(t *testing.T) {
	s := NewState("a")
	s.ApplyPrediction(model.PredictionResult{DelayRisk: "High"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := s.Acquire()
			defer release()
			_ = s.AppendExchange("q", "a")
		}()
	}
	wg.Wait()

	h := s.History()
	require.Len(t, h, 40)
	for i := 0; i < len(h); i += 2 {
		assert.Equal(t, model.SpeakerUser, h[i].Speaker)
		assert.Equal(t, model.SpeakerAssistant, h[i+1].Speaker)
	}
}

func TestStoreGetCreatesOnce(t *testing.T) {
	st := NewStore(time.Hour)

	a := st.Get("x")
	b := st.Get("x")

	assert.Same(t, a, b)
	assert.Equal(t, 1, st.Len())
	assert.NotSame(t, a, st.Get("y"))
}

func TestStoreSweepDropsIdle(t *testing.T) {
	st := NewStore(10 * time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	st.Get("old")
	now = now.Add(8 * time.Minute)
	st.Get("fresh")
	now = now.Add(5 * time.Minute)

	assert.Equal(t, 1, st.Sweep())
	assert.Equal(t, 1, st.Len())

	// a swept session comes back empty
	_, ok := st.Get("old").Prediction()
	assert.False(t, ok)
}

func TestStoreDelete(t *testing.T) {
	st := NewStore(time.Hour)
	st.Get("x").ApplyPrediction(model.PredictionResult{DelayRisk: "High"})

	st.Delete("x")

	_, ok := st.Get("x").Prediction()
	assert.False(t, ok)
}
