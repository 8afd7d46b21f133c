package alloy

import (
	"github.com/hscells/alloy/crossval"
	"github.com/hscells/alloy/eval"
)

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Measurement is the per-(fold, portion, label) metric stage.
	Measurement ResultType = iota
	// Curve is an assembled set of learning curves.
	Curve
	// Evaluation is formatted curve output.
	Evaluation
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

// Result is the output of an alloy pipeline.
type Result struct {
	Measurements []eval.Measurement
	Curves       []eval.LearningCurve
	Evaluations  []string
	Failures     []crossval.UnitError
	Type         ResultType
	Error        error
}
