package eval

import (
	"fmt"
	"log"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/hscells/alloy/crossval"
)

// Metric is a kind of classification metric tracked along a learning curve.
// The set of metrics is closed; encountering a metric without a defined
// learning-curve mapping is an invariant violation, never a silent no-op.
type Metric uint8

const (
	// PrecisionMetric tracks positive-class precision.
	PrecisionMetric Metric = iota
	// RecallMetric tracks positive-class recall.
	RecallMetric
	// F1Metric tracks the harmonic mean of precision and recall.
	F1Metric
)

// Metrics lists every metric with a learning-curve mapping.
var Metrics = []Metric{PrecisionMetric, RecallMetric, F1Metric}

func (m Metric) String() string {
	switch m {
	case PrecisionMetric:
		return "Precision"
	case RecallMetric:
		return "Recall"
	case F1Metric:
		return "F1"
	}
	return fmt.Sprintf("Metric(%d)", uint8(m))
}

// evaluator maps a metric to the evaluator that computes it.
func (m Metric) evaluator() (Evaluator, error) {
	switch m {
	case PrecisionMetric:
		return Precision, nil
	case RecallMetric:
		return Recall, nil
	case F1Metric:
		return F1Measure, nil
	}
	return nil, errors.Errorf("metric kind %d has no learning-curve mapping", uint8(m))
}

// Value is a metric score with an explicit defined flag. An undefined value
// is not the same as a score of zero; it records that the underlying group
// had no examples of the polarity the metric needs.
type Value struct {
	Score   float64
	Defined bool
}

// Measurement holds the metric scores for one (fold, portion, label) unit.
type Measurement struct {
	Fold     int
	Fraction float64
	Label    string
	Scores   map[Metric]Value
}

// classScores computes the metric scores of both classes of a binary
// confusion: the label's true polarity, and the synthetic negative class.
func classScores(c Confusion, metrics []Metric) (map[string]map[Metric]Value, error) {
	scores := make(map[string]map[Metric]Value, 2)
	for _, confusion := range []Confusion{c, c.invert()} {
		class := make(map[Metric]Value, len(metrics))
		for _, m := range metrics {
			evaluator, err := m.evaluator()
			if err != nil {
				return nil, err
			}
			score, defined := evaluator.Score(confusion)
			class[m] = Value{Score: score, Defined: defined}
		}
		scores[confusion.Label] = class
	}
	return scores, nil
}

// Measure groups predictions by (fold, portion, label), builds a binary
// confusion count per group, and computes the requested metrics for the
// label's true polarity. Scores computed against the synthetic negative
// class are discarded. The output is sorted by (fold, fraction, label).
func Measure(predictions []crossval.Prediction, metrics ...Metric) ([]Measurement, error) {
	type key struct {
		fold     int
		fraction float64
		label    string
	}
	groups := make(map[key]*Confusion)
	for _, p := range predictions {
		k := key{fold: p.Fold, fraction: p.Fraction, label: p.Label}
		c, ok := groups[k]
		if !ok {
			c = &Confusion{Label: p.Label}
			groups[k] = c
		}
		switch {
		case p.Predicted && p.Actual:
			c.TP++
		case p.Predicted && !p.Actual:
			c.FP++
		case !p.Predicted && p.Actual:
			c.FN++
		default:
			c.TN++
		}
	}

	measurements := make([]Measurement, 0, len(groups))
	for k, c := range groups {
		scores, err := classScores(*c, metrics)
		if err != nil {
			return nil, errors.Wrapf(err, "measuring fold %d portion %v label %s", k.fold, k.fraction, k.label)
		}
		measurements = append(measurements, Measurement{
			Fold:     k.fold,
			Fraction: k.fraction,
			Label:    k.label,
			Scores:   scores[c.Label],
		})
	}
	sort.Slice(measurements, func(i, j int) bool {
		a, b := measurements[i], measurements[j]
		if a.Fold != b.Fold {
			return a.Fold < b.Fold
		}
		if a.Fraction != b.Fraction {
			return a.Fraction < b.Fraction
		}
		return a.Label < b.Label
	})
	return measurements, nil
}

// Point is one learning-curve point: the metric value at one training-set
// fraction, averaged across the folds that produced a defined value. Folds
// records how many contributed; fewer than the full fold count means some
// fold's group was degenerate for this label.
type Point struct {
	Fraction float64
	Score    float64
	Folds    int
}

// LearningCurve is the ordered series of points for one label and one
// metric.
type LearningCurve struct {
	Label  string
	Metric Metric
	Points []Point
}

// Curves averages measurements across folds and assembles one learning curve
// per (label, metric) pair. The reduction is a grouping followed by an
// arithmetic mean, so it is invariant to the order and batching of its
// input. Undefined values are excluded from the mean; a point that received
// fewer than numFolds contributions is logged and carries the contribution
// count.
func Curves(measurements []Measurement, numFolds int, metrics ...Metric) ([]LearningCurve, error) {
	type key struct {
		label    string
		metric   Metric
		fraction float64
	}
	grouped := make(map[key][]float64)
	for _, measurement := range measurements {
		for metric, value := range measurement.Scores {
			if _, err := metric.evaluator(); err != nil {
				return nil, errors.Wrapf(err, "assembling curve for fold %d portion %v label %s", measurement.Fold, measurement.Fraction, measurement.Label)
			}
			if !value.Defined {
				continue
			}
			k := key{label: measurement.Label, metric: metric, fraction: measurement.Fraction}
			grouped[k] = append(grouped[k], value.Score)
		}
	}

	points := make(map[string]map[Metric][]Point)
	for k, scores := range grouped {
		if len(scores) < numFolds {
			log.Printf("label %s portion %v: only %d of %d folds produced a defined %v\n", k.label, k.fraction, len(scores), numFolds, k.metric)
		}
		if _, ok := points[k.label]; !ok {
			points[k.label] = make(map[Metric][]Point)
		}
		points[k.label][k.metric] = append(points[k.label][k.metric], Point{
			Fraction: k.fraction,
			Score:    stat.Mean(scores, nil),
			Folds:    len(scores),
		})
	}

	var curves []LearningCurve
	for label, byMetric := range points {
		for metric, series := range byMetric {
			sort.Slice(series, func(i, j int) bool {
				return series[i].Fraction < series[j].Fraction
			})
			curves = append(curves, LearningCurve{Label: label, Metric: metric, Points: series})
		}
	}
	sort.Slice(curves, func(i, j int) bool {
		if curves[i].Label != curves[j].Label {
			return curves[i].Label < curves[j].Label
		}
		return curves[i].Metric < curves[j].Metric
	})
	return curves, nil
}
