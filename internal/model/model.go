package model

type DepTimeCategory string

const (
	Morning   DepTimeCategory = "Morning"
	Afternoon DepTimeCategory = "Afternoon"
	Evening   DepTimeCategory = "Evening"
	Night     DepTimeCategory = "Night"
)

// DepTimeCategories lists the categories in the order the form offers them.
var DepTimeCategories = []DepTimeCategory{Morning, Afternoon, Evening, Night}

// FlightQuery is the /predict request body. Form tags bind the HTML form,
// binding tags carry the widget ranges.
type FlightQuery struct {
	UniqueCarrier   string          `json:"UNIQUE_CARRIER" form:"UNIQUE_CARRIER"`
	Origin          string          `json:"ORIGIN" form:"ORIGIN"`
	Dest            string          `json:"DEST" form:"DEST"`
	DepTimeCategory DepTimeCategory `json:"DEP_TIME_CATEGORY" form:"DEP_TIME_CATEGORY" binding:"required,oneof=Morning Afternoon Evening Night"`
	DayOfWeek       int             `json:"DAY_OF_WEEK" form:"DAY_OF_WEEK" binding:"min=1,max=7"`
	Month           int             `json:"MONTH" form:"MONTH" binding:"min=1,max=12"`
	DayOfMonth      int             `json:"DAY_OF_MONTH" form:"DAY_OF_MONTH" binding:"min=1,max=31"`
	Distance        float64         `json:"DISTANCE" form:"DISTANCE" binding:"min=0"`
	RouteDelayRate  float64         `json:"ROUTE_DELAY_RATE" form:"ROUTE_DELAY_RATE" binding:"min=0,max=1"`
}

// DefaultFlightQuery mirrors the initial widget values: every numeric input
// starts at its minimum.
func DefaultFlightQuery() FlightQuery {
	return FlightQuery{
		DepTimeCategory: Morning,
		DayOfWeek:       1,
		Month:           1,
		DayOfMonth:      1,
	}
}

type PredictionResult struct {
	DelayRisk        string  `json:"delay_risk"`
	DelayProbability float64 `json:"delay_probability"`
}

type ChatRequest struct {
	Query   string           `json:"query"`
	Context PredictionResult `json:"context"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type Speaker string

const (
	SpeakerUser      Speaker = "You"
	SpeakerAssistant Speaker = "Assistant"
)

type ChatTurn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// AskRequest is the body of the local /api/ask route.
type AskRequest struct {
	Query string `json:"query" form:"query"`
}
