package classifier

import (
	"context"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/dmitryikh/leaves"
)

// XGBoost evaluates a binary:logistic XGBoost ensemble in process.
type XGBoost struct {
	model *leaves.Ensemble
}

// LoadXGBoost reads an XGBoost binary model file. The logistic
// transformation is loaded so predictions are probabilities.
func LoadXGBoost(path string) (*XGBoost, error) {
	model, err := leaves.XGEnsembleFromFile(path, true)
	if err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: path, Err: err}
	}
	return &XGBoost{model: model}, nil
}

func (x *XGBoost) Schema() Schema {
	return Schema{NFeatures: x.model.NFeatures()}
}

// Classify runs every tree of the ensemble on f.
func (x *XGBoost) Classify(_ context.Context, f domain.Features) (Output, error) {
	pGood := x.model.PredictSingle(f[:], 0)
	return outputFromGood(pGood, threshold), nil
}
