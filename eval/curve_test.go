package eval_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hscells/alloy/crossval"
	"github.com/hscells/alloy/eval"
)

// outcomes builds n predictions with the same (fold, fraction, label) key.
func outcomes(fold int, fraction float64, label string, predicted, actual bool, n int) []crossval.Prediction {
	predictions := make([]crossval.Prediction, n)
	for i := range predictions {
		predictions[i] = crossval.Prediction{Fold: fold, Fraction: fraction, Label: label, Predicted: predicted, Actual: actual}
	}
	return predictions
}

func twoFoldPredictions() []crossval.Prediction {
	var predictions []crossval.Prediction
	for fold := 0; fold < 2; fold++ {
		for _, fraction := range []float64{0.5, 1.0} {
			// 3 true positives, 1 false positive, 1 false negative, 5 true negatives.
			predictions = append(predictions, outcomes(fold, fraction, "Intent", true, true, 3)...)
			predictions = append(predictions, outcomes(fold, fraction, "Intent", true, false, 1)...)
			predictions = append(predictions, outcomes(fold, fraction, "Intent", false, true, 1)...)
			predictions = append(predictions, outcomes(fold, fraction, "Intent", false, false, 5)...)
		}
	}
	return predictions
}

func TestMeasureGroups(t *testing.T) {
	measurements, err := eval.Measure(twoFoldPredictions(), eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 4, len(measurements))
	for _, m := range measurements {
		assert.Equal(t, 3, len(m.Scores))
		assert.Equal(t, eval.Value{Score: 0.75, Defined: true}, m.Scores[eval.PrecisionMetric])
		assert.Equal(t, eval.Value{Score: 0.75, Defined: true}, m.Scores[eval.RecallMetric])
		assert.Equal(t, eval.Value{Score: 0.75, Defined: true}, m.Scores[eval.F1Metric])
	}
}

func TestCurvesOrderInvariant(t *testing.T) {
	predictions := twoFoldPredictions()

	measurements, err := eval.Measure(predictions, eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}
	want, err := eval.Curves(measurements, 2, eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}

	for trial := 0; trial < 10; trial++ {
		shuffled := make([]crossval.Prediction, len(predictions))
		copy(shuffled, predictions)
		rand.New(rand.NewSource(int64(trial))).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		measurements, err := eval.Measure(shuffled, eval.Metrics...)
		if err != nil {
			t.Fatal(err)
		}
		got, err := eval.Curves(measurements, 2, eval.Metrics...)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, want, got)
	}
}

func TestCurvesBatchInvariant(t *testing.T) {
	predictions := twoFoldPredictions()

	// Measuring fold batches independently and concatenating the
	// measurements must produce the same curves as measuring everything
	// at once: the reduction is associative and commutative.
	var batched []eval.Measurement
	for fold := 0; fold < 2; fold++ {
		var batch []crossval.Prediction
		for _, p := range predictions {
			if p.Fold == fold {
				batch = append(batch, p)
			}
		}
		measurements, err := eval.Measure(batch, eval.Metrics...)
		if err != nil {
			t.Fatal(err)
		}
		batched = append(batched, measurements...)
	}
	got, err := eval.Curves(batched, 2, eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}

	measurements, err := eval.Measure(predictions, eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}
	want, err := eval.Curves(measurements, 2, eval.Metrics...)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, want, got)
}

func TestCurvesAverageAcrossFolds(t *testing.T) {
	var predictions []crossval.Prediction
	// Fold 0: precision 1.0; fold 1: precision 0.5.
	predictions = append(predictions, outcomes(0, 1.0, "Intent", true, true, 4)...)
	predictions = append(predictions, outcomes(1, 1.0, "Intent", true, true, 2)...)
	predictions = append(predictions, outcomes(1, 1.0, "Intent", true, false, 2)...)

	measurements, err := eval.Measure(predictions, eval.PrecisionMetric)
	if err != nil {
		t.Fatal(err)
	}
	curves, err := eval.Curves(measurements, 2, eval.PrecisionMetric)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 1, len(curves))
	assert.Equal(t, "Intent", curves[0].Label)
	assert.Equal(t, eval.PrecisionMetric, curves[0].Metric)
	assert.Equal(t, 1, len(curves[0].Points))
	assert.Equal(t, 0.75, curves[0].Points[0].Score)
	assert.Equal(t, 2, curves[0].Points[0].Folds)
}

func TestCurvesExcludeUndefined(t *testing.T) {
	var predictions []crossval.Prediction
	// Fold 0 has gold positives; fold 1 has none at all, so its recall
	// is undefined and must not drag the average to zero.
	predictions = append(predictions, outcomes(0, 1.0, "Rare", true, true, 2)...)
	predictions = append(predictions, outcomes(0, 1.0, "Rare", false, true, 2)...)
	predictions = append(predictions, outcomes(1, 1.0, "Rare", false, false, 4)...)

	measurements, err := eval.Measure(predictions, eval.RecallMetric)
	if err != nil {
		t.Fatal(err)
	}
	curves, err := eval.Curves(measurements, 2, eval.RecallMetric)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, 1, len(curves))
	assert.Equal(t, 1, len(curves[0].Points))
	assert.Equal(t, 0.5, curves[0].Points[0].Score)
	assert.Equal(t, 1, curves[0].Points[0].Folds)
}

func TestCurvesRejectUnmappedMetricKind(t *testing.T) {
	bogus := eval.Metric(200)

	_, err := eval.Measure(twoFoldPredictions(), bogus)
	assert.Error(t, err)

	measurements := []eval.Measurement{{
		Fold:     0,
		Fraction: 1.0,
		Label:    "Intent",
		Scores:   map[eval.Metric]eval.Value{bogus: {Score: 0.5, Defined: true}},
	}}
	_, err = eval.Curves(measurements, 2)
	assert.Error(t, err)
}

func TestCurvePointsSortedByFraction(t *testing.T) {
	measurements, err := eval.Measure(twoFoldPredictions(), eval.F1Metric)
	if err != nil {
		t.Fatal(err)
	}
	curves, err := eval.Curves(measurements, 2, eval.F1Metric)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, len(curves))
	points := curves[0].Points
	assert.Equal(t, 2, len(points))
	assert.Equal(t, 0.5, points[0].Fraction)
	assert.Equal(t, 1.0, points[1].Fraction)
}
