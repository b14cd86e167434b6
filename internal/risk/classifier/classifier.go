// Package classifier adapts externally trained credit-risk models to a
// single-call interface.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
)

const artifact = "model"

// Output is the raw answer for one row: the predicted class and the
// [p_bad, p_good] probability pair.
type Output struct {
	Class         int
	Probabilities [2]float64
}

// Schema describes the input row a model expects. Names is nil when the
// model format does not record column names.
type Schema struct {
	NFeatures int
	Names     []string
}

// Classifier scores one feature row. Implementations are safe for
// concurrent use.
type Classifier interface {
	Classify(ctx context.Context, f domain.Features) (Output, error)
	Schema() Schema
}

var ErrSchemaMismatch = errors.New("model input schema does not match feature order")

// AssertSchema checks that s accepts exactly the row built by encoding.
func AssertSchema(s Schema) error {
	if s.NFeatures != domain.FeatureCount {
		return fmt.Errorf("%w: model expects %d features, rows have %d", ErrSchemaMismatch, s.NFeatures, domain.FeatureCount)
	}
	if s.Names != nil && !slices.Equal(s.Names, encoding.FeatureOrder[:]) {
		return fmt.Errorf("%w: model columns %q, rows %q", ErrSchemaMismatch, s.Names, encoding.FeatureOrder)
	}
	return nil
}

// Backend names a model format.
type Backend string

const (
	BackendXGBoost  Backend = "xgboost"
	BackendLogistic Backend = "logistic"
	BackendRemote   Backend = "remote"
)

// Config selects and locates the model.
type Config struct {
	Backend Backend
	File    string        // xgboost, logistic
	URL     string        // remote
	Timeout time.Duration // remote
}

// Open loads the configured model and asserts its schema. Every failure is
// a *domain.StartupError.
func Open(ctx context.Context, cfg Config) (Classifier, error) {
	var (
		c   Classifier
		err error
	)
	switch cfg.Backend {
	case BackendXGBoost, "":
		c, err = LoadXGBoost(cfg.File)
	case BackendLogistic:
		c, err = LoadLogistic(cfg.File)
	case BackendRemote:
		c, err = DialRemote(ctx, cfg.URL, cfg.Timeout)
	default:
		return nil, &domain.StartupError{Artifact: artifact, Err: fmt.Errorf("unknown backend %q", cfg.Backend)}
	}
	if err != nil {
		return nil, err
	}

	if err := AssertSchema(c.Schema()); err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: cfg.location(), Err: err}
	}
	return c, nil
}

func (c Config) location() string {
	if c.Backend == BackendRemote {
		return c.URL
	}
	return c.File
}

// threshold is the decision boundary on P(good), matching the classifier
// wrapper the models were exported from.
const threshold = 0.5

func outputFromGood(pGood, cutoff float64) Output {
	class := 0
	if pGood > cutoff {
		class = domain.GoodClass
	}
	return Output{Class: class, Probabilities: [2]float64{1 - pGood, pGood}}
}
