// Package trainer defines the boundary to the single-model trainer consumed
// by the cross-validation pipeline, and provides default trainers behind it.
package trainer

import (
	"github.com/hscells/alloy/pipeline"
)

// Options carries trainer-specific settings. They are passed through the
// pipeline opaquely; each trainer documents the keys it understands.
type Options map[string]interface{}

// Model is one trained classifier, bound to the documents it was trained on.
type Model interface {
	// Predict returns the per-label probability of a document.
	Predict(doc pipeline.Document) (map[string]float64, error)
	// Thresholds returns the per-label decision thresholds the model
	// suggests. Labels absent from the mapping fall back to the task's
	// default threshold.
	Thresholds() map[string]float64
}

// Trainer trains a single model from a document stream. Implementations must
// be safe for concurrent use: cross-validation invokes Train once per
// (fold, portion) pair, in parallel, with no ordering between invocations.
type Trainer interface {
	Train(name string, src pipeline.Source, config pipeline.LabelConfig, opts Options) (Model, error)
}
