package domain

import "math"

// Label is the credit-risk verdict.
type Label string

const (
	LabelGood Label = "good"
	LabelBad  Label = "bad"
)

// GoodClass is the classifier output meaning "good risk".
const GoodClass = 1

// Prediction is the verdict for one applicant. Confidence is the probability
// the classifier assigned to the predicted label.
type Prediction struct {
	Label      Label   `json:"label" example:"good"`
	Confidence float64 `json:"confidence" example:"0.87"`
}

// NewPrediction maps a raw class and its [p_bad, p_good] pair onto a
// Prediction. Class GoodClass is good; any other class is bad.
func NewPrediction(class int, proba [2]float64) (Prediction, error) {
	label, p := LabelBad, proba[0]
	if class == GoodClass {
		label, p = LabelGood, proba[1]
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Prediction{}, &InferenceError{Err: errNonFiniteProbability}
	}
	return Prediction{Label: label, Confidence: min(max(p, 0), 1)}, nil
}

// Percent is the confidence in whole percent, truncated.
func (p Prediction) Percent() int {
	return int(p.Confidence * 100)
}

func (p Prediction) Good() bool { return p.Label == LabelGood }
