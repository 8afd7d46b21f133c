// Package alloy provides a framework for constructing reproducible
// learning-curve experiments over annotated document collections. Documents
// are split into cross-validation folds with nested training portions, one
// model is trained per (fold, portion) pair, and held-out predictions are
// reduced into one learning curve per label and metric.
package alloy

import (
	"log"

	"github.com/hscells/alloy/crossval"
	"github.com/hscells/alloy/dataset"
	"github.com/hscells/alloy/eval"
	"github.com/hscells/alloy/output"
	"github.com/hscells/alloy/pipeline"
	"github.com/hscells/alloy/trainer"
)

// Pipeline contains all the information for executing a learning-curve
// experiment.
type Pipeline struct {
	Source     pipeline.Source
	Trainer    trainer.Trainer
	Config     pipeline.LabelConfig
	NumFolds   int
	Fractions  []float64
	Seed       int64
	Metrics    []eval.Metric
	Formatters []output.CurveFormatter
	Options    crossval.Options
}

type foldConfig struct {
	numFolds  int
	seed      int64
	fractions []float64
}

// Labels configures the label universe and task type.
func Labels(labels []string, task pipeline.TaskType) func() interface{} {
	return func() interface{} {
		return pipeline.LabelConfig{Labels: labels, Task: task}
	}
}

// Folds configures the number of folds, the random seed, and the training
// portion fractions.
func Folds(numFolds int, seed int64, fractions ...float64) func() interface{} {
	return func() interface{} {
		return foldConfig{numFolds: numFolds, seed: seed, fractions: fractions}
	}
}

// Metrics configures which metrics are tracked along the learning curves.
func Metrics(metrics ...eval.Metric) func() interface{} {
	return func() interface{} {
		return metrics
	}
}

// CurveOutput configures formatters for the assembled curves.
func CurveOutput(formatters ...output.CurveFormatter) func() interface{} {
	return func() interface{} {
		return formatters
	}
}

// Training configures the training fan-out.
func Training(opts crossval.Options) func() interface{} {
	return func() interface{} {
		return opts
	}
}

// NewPipeline creates a new alloy pipeline. The document source and trainer
// are required; the remaining components are provided via the optional
// functional arguments.
func NewPipeline(src pipeline.Source, t trainer.Trainer, components ...func() interface{}) Pipeline {
	p := Pipeline{
		Source:    src,
		Trainer:   t,
		NumFolds:  10,
		Fractions: []float64{0.25, 0.5, 0.75, 1.0},
		Seed:      42,
		Metrics:   eval.Metrics,
	}

	for _, component := range components {
		val := component()
		switch v := val.(type) {
		case pipeline.LabelConfig:
			p.Config = v
		case foldConfig:
			p.NumFolds = v.numFolds
			p.Seed = v.seed
			p.Fractions = v.fractions
		case []eval.Metric:
			p.Metrics = v
		case []output.CurveFormatter:
			p.Formatters = v
		case crossval.Options:
			p.Options = v
		}
	}

	return p
}

// Execute runs an alloy pipeline, streaming results over c. The channel is
// closed when the pipeline finishes.
func (p Pipeline) Execute(c chan Result) {
	defer close(c)
	log.Println("starting alloy pipeline...")

	folds, err := dataset.Split(p.Source, p.NumFolds, p.Fractions, p.Seed)
	if err != nil {
		c <- Result{Error: err, Type: Error}
		return
	}

	log.Printf("training %d folds with %d portions each\n", len(folds), len(p.Fractions))
	models, failures, err := crossval.TrainFolds(folds, p.Trainer, p.Config, p.Options)
	if err != nil {
		c <- Result{Error: err, Failures: failures, Type: Error}
		return
	}
	for _, failure := range failures {
		log.Printf("training unit failed: %v\n", failure)
	}

	predictions, err := crossval.Collect(models, p.Config)
	if err != nil {
		c <- Result{Error: err, Type: Error}
		return
	}

	measurements, err := eval.Measure(predictions, p.Metrics...)
	if err != nil {
		c <- Result{Error: err, Type: Error}
		return
	}
	c <- Result{Measurements: measurements, Type: Measurement}

	curves, err := eval.Curves(measurements, p.NumFolds, p.Metrics...)
	if err != nil {
		c <- Result{Error: err, Type: Error}
		return
	}
	for _, curve := range curves {
		for _, point := range curve.Points {
			log.Printf("label %s %v@%v: %v (%d folds)\n", curve.Label, curve.Metric, point.Fraction, point.Score, point.Folds)
		}
	}
	c <- Result{Curves: curves, Type: Curve}

	if len(p.Formatters) > 0 {
		evaluations := make([]string, len(p.Formatters))
		for i, formatter := range p.Formatters {
			s, err := formatter(curves)
			if err != nil {
				c <- Result{Error: err, Type: Error}
				return
			}
			evaluations[i] = s
		}
		c <- Result{Evaluations: evaluations, Type: Evaluation}
	}

	c <- Result{Type: Done}
}
