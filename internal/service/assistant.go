package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"flight-assistant/internal/logger"
	"flight-assistant/internal/model"
	"flight-assistant/internal/session"
)

// Remote is the prediction service as the Assistant sees it. *APIClient
// implements it.
type Remote interface {
	Predict(ctx context.Context, q model.FlightQuery) (*model.PredictionResult, error)
	Chat(ctx context.Context, query string, pred model.PredictionResult) (string, error)
}

type Level string

const (
	LevelNone    Level = ""
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindRemoteStatus ErrorKind = "remote_status"
	KindTransport    ErrorKind = "transport"
	KindDecode       ErrorKind = "decode"
	KindPrecondition ErrorKind = "precondition"
)

const (
	MsgPredictAPIError = "Prediction API error occurred."
	MsgChatAPIError    = "Chat API error occurred."
	MsgPredictFirst    = "Please predict delay risk first."
)

// Outcome is what a user action produced, ready to be rendered inline.
type Outcome struct {
	Level      Level                   `json:"level,omitempty"`
	Kind       ErrorKind               `json:"kind,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Prediction *model.PredictionResult `json:"prediction,omitempty"`
	Reply      string                  `json:"reply,omitempty"`
}

func (o Outcome) Empty() bool { return o.Level == LevelNone }
func (o Outcome) Failed() bool {
	return o.Level == LevelWarning || o.Level == LevelError
}

// Rejected reports form input that did not pass the widget ranges.
func Rejected(err error) Outcome {
	return Outcome{Level: LevelWarning, Kind: KindValidation, Message: "Invalid flight details: " + err.Error()}
}

// Assistant runs the two user actions against a session. Session state only
// changes when the remote call succeeds.
type Assistant struct {
	remote Remote
}

func NewAssistant(remote Remote) *Assistant {
	return &Assistant{remote: remote}
}

func (a *Assistant) Predict(ctx context.Context, st *session.State, q model.FlightQuery) Outcome {
	release := st.Acquire()
	defer release()

	log := logger.Session(st.ID())
	st.RememberQuery(q)
	log.Info("predict", "carrier", q.UniqueCarrier, "origin", q.Origin, "dest", q.Dest, "dep_time", q.DepTimeCategory)

	res, err := a.remote.Predict(ctx, q)
	if err != nil {
		out := failure(err, MsgPredictAPIError, "Connection error: ")
		log.Warn("predict.failed", "kind", out.Kind, "err", err)
		return out
	}

	st.ApplyPrediction(*res)
	log.Info("predict.ok", "risk", res.DelayRisk, "probability", res.DelayProbability)
	return Outcome{
		Level:      LevelSuccess,
		Message:    "Delay Risk: " + res.DelayRisk,
		Prediction: res,
	}
}

// Ask relays query to the chat endpoint with the session's prediction as
// context. Blank queries are ignored.
func (a *Assistant) Ask(ctx context.Context, st *session.State, query string) Outcome {
	if strings.TrimSpace(query) == "" {
		return Outcome{}
	}

	release := st.Acquire()
	defer release()

	log := logger.Session(st.ID())
	pred, ok := st.Prediction()
	if !ok {
		log.Info("ask.rejected", "reason", "no prediction")
		return Outcome{Level: LevelWarning, Kind: KindPrecondition, Message: MsgPredictFirst}
	}

	reply, err := a.remote.Chat(ctx, query, pred)
	if err != nil {
		out := failure(err, MsgChatAPIError, "Chat connection error: ")
		log.Warn("ask.failed", "kind", out.Kind, "err", err)
		return out
	}

	if err := st.AppendExchange(query, reply); err != nil {
		// unreachable while the session is held, predictions are never removed
		return Outcome{Level: LevelWarning, Kind: KindPrecondition, Message: MsgPredictFirst}
	}
	log.Info("ask.ok", "turns", len(st.History()))
	return Outcome{Level: LevelSuccess, Reply: reply}
}

func failure(err error, apiMsg, connPrefix string) Outcome {
	var (
		statusErr *StatusError
		decodeErr *DecodeError
	)
	switch {
	case errors.As(err, &statusErr):
		return Outcome{Level: LevelError, Kind: KindRemoteStatus, Message: apiMsg}
	case errors.As(err, &decodeErr):
		return Outcome{Level: LevelError, Kind: KindDecode, Message: apiMsg}
	default:
		return Outcome{Level: LevelError, Kind: KindTransport, Message: fmt.Sprint(connPrefix, err)}
	}
}
