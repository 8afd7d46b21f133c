// Package eval reduces raw cross-validation predictions into per-label
// learning curves: per-(fold, portion, label) classification metrics,
// averaged across folds and reshaped into per-label point series.
package eval

import (
	"fmt"
	"math"
)

// NegationPrefix marks the synthetic negative class of a binary confusion
// matrix. The marker avoids collision with a real label of the same text.
const NegationPrefix = "not-"

// Confusion is the binary confusion count for one (fold, portion, label)
// group of predictions.
type Confusion struct {
	Label          string
	TP, TN, FP, FN float64
}

// Negative is the name of the confusion's synthetic negative class.
func (c Confusion) Negative() string {
	return NegationPrefix + c.Label
}

// invert flips the confusion to the perspective of the negative class.
func (c Confusion) invert() Confusion {
	return Confusion{
		Label: c.Negative(),
		TP:    c.TN,
		TN:    c.TP,
		FP:    c.FN,
		FN:    c.FP,
	}
}

func (c Confusion) String() string {
	return fmt.Sprintf("%s: tp=%v tn=%v fp=%v fn=%v", c.Label, c.TP, c.TN, c.FP, c.FN)
}

// Evaluator scores a binary confusion matrix. The boolean reports whether
// the score is defined: a group with only one gold or predicted polarity can
// make a metric's denominator zero, which must be distinguishable from a
// true score of zero.
type Evaluator interface {
	Score(c Confusion) (float64, bool)
	Name() string
}

type precisionEvaluator struct{}
type recallEvaluator struct{}

// FMeasure computes f-measure, with the beta parameter controlling the
// precision and recall trade-off.
type FMeasure struct {
	beta float64
}

var (
	// Precision calculates precision of the positive class.
	Precision = precisionEvaluator{}
	// Recall calculates recall of the positive class.
	Recall = recallEvaluator{}
	// F1Measure is f-measure with beta=1.
	F1Measure = FMeasure{beta: 1}
	// F05Measure is f-measure with beta=0.5.
	F05Measure = FMeasure{beta: 0.5}
)

func (precisionEvaluator) Name() string {
	return "Precision"
}

func (precisionEvaluator) Score(c Confusion) (float64, bool) {
	if c.TP+c.FP == 0 {
		return 0, false
	}
	return c.TP / (c.TP + c.FP), true
}

func (recallEvaluator) Name() string {
	return "Recall"
}

func (recallEvaluator) Score(c Confusion) (float64, bool) {
	if c.TP+c.FN == 0 {
		return 0, false
	}
	return c.TP / (c.TP + c.FN), true
}

// Name calculates the name of the f-measure with beta parameter.
func (f FMeasure) Name() string {
	return fmt.Sprintf("F%vMeasure", f.beta)
}

// Score uses the beta parameter to compute f-measure. When precision and
// recall are both zero the score is zero by convention, not NaN.
func (f FMeasure) Score(c Confusion) (float64, bool) {
	precision, pok := Precision.Score(c)
	recall, rok := Recall.Score(c)
	if !pok || !rok {
		return 0, false
	}
	if precision == 0 && recall == 0 {
		return 0, true
	}
	betaSquared := math.Pow(f.beta, 2)
	return ((1 + betaSquared) * (precision * recall)) / ((betaSquared * precision) + recall), true
}
