// Package photo estimates the foods and nutrients in a meal photo.
//
// Analyzers distinguish "no food in this picture", a normal result, from
// technical failures. Callers use errors.Is with ErrUnavailable (retry later)
// or ErrMisconfigured (fall back to manual entry) to pick their messaging.
package photo

import (
	"context"
	"errors"

	"lg/calorix-api/internal/config"
	"lg/calorix-api/internal/nutrition"
)

// Status is the outcome of a successful analysis.
type Status string

const (
	StatusSuccess     Status = "SUCCESS"
	StatusNoFoodFound Status = "NO_FOOD_FOUND"
)

var (
	// ErrUnavailable means the provider could not be reached or answered
	// with something unusable. Retrying may help.
	ErrUnavailable = errors.New("photo analysis unavailable")
	// ErrMisconfigured means the provider is not set up (missing or rejected
	// credentials). Retrying will not help.
	ErrMisconfigured = errors.New("photo analysis not configured")
)

// FoodEstimate is one item the provider recognized, sized for the visible
// portion.
type FoodEstimate struct {
	Name           string                 `json:"name"`
	Calories       float64                `json:"calories"`
	ProteinG       float64                `json:"protein"`
	CarbsG         float64                `json:"carbs"`
	FatG           float64                `json:"fat"`
	ServingSize    string                 `json:"servingSize"`
	Category       nutrition.FoodCategory `json:"category"`
	Micronutrients map[string]float64     `json:"micronutrients,omitempty"`
}

// Food converts the estimate into a loggable item. ID and CreatedAt are left
// for the ledger to assign.
func (e FoodEstimate) Food() nutrition.Food {
	return nutrition.Food{
		Name:           e.Name,
		Category:       e.Category,
		Calories:       e.Calories,
		ProteinG:       e.ProteinG,
		CarbsG:         e.CarbsG,
		FatG:           e.FatG,
		ServingSize:    e.ServingSize,
		Micronutrients: e.Micronutrients,
	}.Sanitized()
}

// Result is what Analyze returns when the provider answered.
type Result struct {
	Status Status         `json:"status"`
	Foods  []FoodEstimate `json:"foods"`
}

// NoFood is the empty result.
func NoFood() Result {
	return Result{Status: StatusNoFoodFound, Foods: []FoodEstimate{}}
}

// Analyzer turns image bytes into food estimates.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (Result, error)
}

// Disabled is the Analyzer used when no provider is configured.
type Disabled struct{}

func (Disabled) Analyze(context.Context, []byte) (Result, error) {
	return Result{}, ErrMisconfigured
}

// New builds the analyzer described by cfg. Without an API key every call
// fails with ErrMisconfigured.
func New(ctx context.Context, cfg config.PhotoConfig) (Analyzer, error) {
	if cfg.OpenAIKey == "" {
		return Disabled{}, nil
	}
	var a Analyzer = NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model)
	if cfg.RekognitionGate {
		g, err := NewRekognitionGate(ctx, cfg.AWSRegion, a)
		if err != nil {
			return nil, err
		}
		a = g
	}
	return a, nil
}
