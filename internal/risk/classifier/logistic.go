package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
)

// LogisticModel is a linear model exported as JSON:
//
//	{"features": [...], "intercept": b, "coefficients": [...], "threshold": 0.5}
type LogisticModel struct {
	Features     []string  `json:"features"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	Threshold    float64   `json:"threshold"`
}

// Logistic scores rows with P(good) = sigmoid(intercept + w·x).
type Logistic struct {
	m LogisticModel
}

// LoadLogistic reads a LogisticModel from path.
func LoadLogistic(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}

	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: fmt.Errorf("decode: %w", err)}
	}

	l, err := NewLogistic(m)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}
	return l, nil
}

// NewLogistic validates m. A zero threshold means 0.5.
func NewLogistic(m LogisticModel) (*Logistic, error) {
	if len(m.Coefficients) == 0 {
		return nil, errors.New("logistic model has no coefficients")
	}
	if m.Features != nil && len(m.Features) != len(m.Coefficients) {
		return nil, fmt.Errorf("logistic model has %d features but %d coefficients", len(m.Features), len(m.Coefficients))
	}
	if m.Threshold == 0 {
		m.Threshold = threshold
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		return nil, fmt.Errorf("logistic threshold %v outside (0,1)", m.Threshold)
	}
	return &Logistic{m: m}, nil
}

func (l *Logistic) Schema() Schema {
	return Schema{NFeatures: len(l.m.Coefficients), Names: l.m.Features}
}

func (l *Logistic) Classify(_ context.Context, f domain.Features) (Output, error) {
	if len(l.m.Coefficients) != len(f) {
		return Output{}, fmt.Errorf("row has %d features, model expects %d", len(f), len(l.m.Coefficients))
	}
	z := l.m.Intercept
	for i, w := range l.m.Coefficients {
		z += w * f[i]
	}
	return outputFromGood(1/(1+math.Exp(-z)), l.m.Threshold), nil
}
