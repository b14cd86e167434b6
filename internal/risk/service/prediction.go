package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/classifier"
	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
)

// FeatureBuilder turns an applicant into a classifier row.
type FeatureBuilder interface {
	BuildFeatures(a domain.Applicant) (domain.Features, error)
}

// PredictionService runs the encode, classify, interpret pipeline for one
// applicant. It holds no per-request state.
type PredictionService struct {
	Features   FeatureBuilder
	Classifier classifier.Classifier
	Metrics    *Metrics // optional
}

// Predict builds the feature row, calls the classifier exactly once and
// interprets its answer. Invalid input never reaches the classifier.
func (s *PredictionService) Predict(ctx context.Context, a domain.Applicant) (domain.Prediction, error) {
	f, err := s.Features.BuildFeatures(a)
	if err != nil {
		s.fail(err)
		return domain.Prediction{}, err
	}

	out, err := s.classify(ctx, f)
	if err != nil {
		slogx.FromContext(ctx).Error("classifier call failed", "err", err)
		err = &domain.InferenceError{Err: err}
		s.fail(err)
		return domain.Prediction{}, err
	}

	p, err := domain.NewPrediction(out.Class, out.Probabilities)
	if err != nil {
		s.fail(err)
		return domain.Prediction{}, err
	}

	if s.Metrics != nil {
		s.Metrics.PredictionsTotal.WithLabelValues(string(p.Label)).Inc()
	}
	return p, nil
}

// classify converts classifier panics into errors.
func (s *PredictionService) classify(ctx context.Context, f domain.Features) (out classifier.Output, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
		if s.Metrics != nil {
			s.Metrics.InferenceDuration.Observe(time.Since(start).Seconds())
		}
	}()
	return s.Classifier.Classify(ctx, f)
}

func (s *PredictionService) fail(err error) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.PredictionFailures.WithLabelValues(errorKind(err)).Inc()
}

func errorKind(err error) string {
	var (
		verr *domain.ValidationError
		eerr *domain.EncodingError
	)
	switch {
	case errors.As(err, &verr):
		return "validation"
	case errors.As(err, &eerr):
		return "encoding"
	default:
		return "inference"
	}
}
