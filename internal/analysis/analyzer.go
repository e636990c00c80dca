package analysis

import (
	"context"
	"strings"
)

const (
	defaultOccasion = "casual"
	defaultWeather  = "mild"
)

// Request carries the optional context submitted with an outfit photo.
type Request struct {
	Occasion string `json:"occasion"`
	Weather  string `json:"weather"`
}

// Result is the analysis verdict returned to clients.
type Result struct {
	GeneralSuggestion     string   `json:"general_suggestion"`
	Reason                string   `json:"reason"`
	PremiumSuggestion     string   `json:"premium_suggestion"`
	AdditionalSuggestions []string `json:"additional_suggestions"`
	WeatherTips           []string `json:"weather_tips"`
	Rating                string   `json:"rating"`
	Confidence            int      `json:"confidence"`
	Occasion              string   `json:"occasion"`
	Weather               string   `json:"weather"`
}

// Analyzer produces an outfit verdict. The stub below is the only
// implementation; a model-backed analyzer would slot in behind this
// interface without touching the handlers.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// StubAnalyzer returns a fixed verdict regardless of input, echoing the
// occasion and weather context back with defaults applied.
type StubAnalyzer struct{}

func NewStubAnalyzer() *StubAnalyzer {
	return &StubAnalyzer{}
}

func (a *StubAnalyzer) Analyze(_ context.Context, req Request) (*Result, error) {
	occasion := strings.TrimSpace(req.Occasion)
	if occasion == "" {
		occasion = defaultOccasion
	}
	weather := strings.TrimSpace(req.Weather)
	if weather == "" {
		weather = defaultWeather
	}

	return &Result{
		GeneralSuggestion:     "Your outfit combination works well!",
		Reason:                "Colors complement each other nicely.",
		PremiumSuggestion:     "Add a stylish watch or bracelet.",
		AdditionalSuggestions: []string{"Pair with white sneakers", "Add a denim jacket"},
		WeatherTips:           []string{"Perfect for current weather"},
		Rating:                "good",
		Confidence:            85,
		Occasion:              occasion,
		Weather:               weather,
	}, nil
}
