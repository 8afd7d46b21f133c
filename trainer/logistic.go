package trainer

import (
	"math"

	"github.com/go-errors/errors"

	"github.com/hscells/alloy/dataset"
	"github.com/hscells/alloy/features"
	"github.com/hscells/alloy/pipeline"
)

const (
	defaultEpochs       = 100
	defaultLearningRate = 0.1
)

// LogisticTrainer trains one binary logistic-regression classifier per label
// with gradient descent. Training is deterministic for a deterministic
// document source.
//
// Options: "epochs" (int) and "rate" (float64).
type LogisticTrainer struct{}

// LogisticModel holds the per-label weights of a trained logistic-regression
// classifier. Fields are exported so models can be persisted with gob.
type LogisticModel struct {
	Weights map[string][]float64
	Bias    map[string]float64
	Encoder *features.Encoder
}

func (t LogisticTrainer) Train(name string, src pipeline.Source, config pipeline.LabelConfig, opts Options) (Model, error) {
	examples, encoder, err := dataset.Build(src, config)
	if err != nil {
		return nil, err
	}

	epochs := defaultEpochs
	if v, ok := opts["epochs"].(int); ok {
		epochs = v
	}
	rate := defaultLearningRate
	if v, ok := opts["rate"].(float64); ok {
		rate = v
	}

	m := &LogisticModel{
		Weights: make(map[string][]float64, len(config.Labels)),
		Bias:    make(map[string]float64, len(config.Labels)),
		Encoder: encoder,
	}
	for _, label := range config.Labels {
		w := make([]float64, encoder.Dimension())
		var b float64
		for epoch := 0; epoch < epochs; epoch++ {
			for _, example := range examples[label] {
				g := sigmoid(dot(w, example.Features)+b) - example.Label
				for i, x := range example.Features {
					if x != 0 {
						w[i] -= rate * g * x
					}
				}
				b -= rate * g
			}
		}
		m.Weights[label] = w
		m.Bias[label] = b
	}

	return m, nil
}

// Predict returns the sigmoid probability of each label for a document.
func (m *LogisticModel) Predict(doc pipeline.Document) (map[string]float64, error) {
	v, err := m.Encoder.Encode(doc)
	if err != nil {
		return nil, err
	}
	probabilities := make(map[string]float64, len(m.Weights))
	for label, w := range m.Weights {
		if len(v) != len(w) {
			return nil, errors.Errorf("document %s encoded to %d dimensions, model for %s has %d", doc.ID, len(v), label, len(w))
		}
		probabilities[label] = sigmoid(dot(w, v) + m.Bias[label])
	}
	return probabilities, nil
}

// Thresholds returns no thresholds; decisions fall back to the task default.
func (m *LogisticModel) Thresholds() map[string]float64 {
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func dot(w []float64, v features.Vector) float64 {
	var score float64
	for i, x := range v {
		score += x * w[i]
	}
	return score
}
