package session

import (
	"errors"
	"sync"

	"flight-assistant/internal/model"
)

// ErrNoPrediction is returned when a chat exchange is recorded before any
// prediction succeeded in the session.
var ErrNoPrediction = errors.New("no prediction in session")

// State is one browser session: the last prediction and the chat transcript
// of the current epoch. An epoch starts with every successful prediction.
type State struct {
	id string

	// call serializes user actions so a session has at most one remote call
	// outstanding.
	call sync.Mutex

	mu         sync.Mutex
	prediction *model.PredictionResult
	history    []model.ChatTurn
	query      model.FlightQuery
}

// Snapshot is a copy of a State, safe to hand to templates and encoders.
type Snapshot struct {
	Prediction *model.PredictionResult `json:"prediction"`
	History    []model.ChatTurn        `json:"history"`
	Query      model.FlightQuery       `json:"query"`
}

func NewState(id string) *State {
	return &State{id: id, history: []model.ChatTurn{}, query: model.DefaultFlightQuery()}
}

func (s *State) ID() string { return s.id }

// Acquire blocks until no other action runs on the session and returns the
// release func.
func (s *State) Acquire() (release func()) {
	s.call.Lock()
	return s.call.Unlock
}

// RememberQuery keeps the submitted form values so the form can be redrawn
// with them.
func (s *State) RememberQuery(q model.FlightQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// ApplyPrediction stores res and starts a new epoch. The transcript is
// cleared even when the prediction equals the previous one.
func (s *State) ApplyPrediction(res model.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prediction = &res
	s.history = []model.ChatTurn{}
}

func (s *State) Prediction() (model.PredictionResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prediction == nil {
		return model.PredictionResult{}, false
	}
	return *s.prediction, true
}

// AppendExchange records a question and its answer as two turns, in that
// order, or nothing at all.
func (s *State) AppendExchange(query, reply string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prediction == nil {
		return ErrNoPrediction
	}
	s.history = append(s.history,
		model.ChatTurn{Speaker: model.SpeakerUser, Text: query},
		model.ChatTurn{Speaker: model.SpeakerAssistant, Text: reply},
	)
	return nil
}

func (s *State) History() []model.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Query: s.query, History: make([]model.ChatTurn, len(s.history))}
	copy(snap.History, s.history)
	if s.prediction != nil {
		p := *s.prediction
		snap.Prediction = &p
	}
	return snap
}
