package view

import (
	"fmt"

	"flight-assistant/internal/model"
	"flight-assistant/internal/service"
	"flight-assistant/internal/session"
)

const Title = "Flight Delay Intelligence Assistant"

type TranscriptLine struct {
	Prefix string
	Text   string
}

// Transcript renders turns in insertion order. Same input, same output.
func Transcript(turns []model.ChatTurn) []TranscriptLine {
	lines := make([]TranscriptLine, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, TranscriptLine{Prefix: prefix(t.Speaker), Text: t.Text})
	}
	return lines
}

func prefix(s model.Speaker) string {
	if s == model.SpeakerUser {
		return "🧑 You:"
	}
	return "🤖 Assistant:"
}

// Percent formats a probability in [0,1] as a percentage with two decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

type Notice struct {
	Level   string
	Message string
}

// ResultView is the success banner and probability metric of a prediction.
type ResultView struct {
	Risk        string
	Probability string
}

type Option struct {
	Value    string
	Selected bool
}

// Page is everything index.tmpl needs.
type Page struct {
	Title        string
	Query        model.FlightQuery
	Categories   []Option
	Result       *ResultView
	PredictNote  *Notice
	ChatNote     *Notice
	Transcript   []TranscriptLine
	HasPredicted bool
}

// NewPage builds the page from the session snapshot. predict and ask are the
// outcomes of the action handled by this request, either may be empty.
func NewPage(snap session.Snapshot, predict, ask service.Outcome) Page {
	p := Page{
		Title:        Title,
		Query:        snap.Query,
		Transcript:   Transcript(snap.History),
		HasPredicted: snap.Prediction != nil,
	}
	for _, c := range model.DepTimeCategories {
		p.Categories = append(p.Categories, Option{Value: string(c), Selected: c == snap.Query.DepTimeCategory})
	}
	// The result block is only shown right after a successful prediction.
	if predict.Level == service.LevelSuccess && predict.Prediction != nil {
		p.Result = &ResultView{
			Risk:        predict.Prediction.DelayRisk,
			Probability: Percent(predict.Prediction.DelayProbability),
		}
	} else if predict.Failed() {
		p.PredictNote = &Notice{Level: string(predict.Level), Message: predict.Message}
	}
	if ask.Failed() {
		p.ChatNote = &Notice{Level: string(ask.Level), Message: ask.Message}
	}
	return p
}
