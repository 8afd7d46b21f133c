// Package crossval trains one model per (fold, portion) pair and collects
// held-out predictions from them. Units of work are independent, so both the
// training fan-out and the per-fold prediction passes run in parallel.
package crossval

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/hscells/alloy/corpus"
	"github.com/hscells/alloy/dataset"
	"github.com/hscells/alloy/pipeline"
	"github.com/hscells/alloy/trainer"
)

// PortionModel binds one trained model to the portion it was trained on.
type PortionModel struct {
	Fraction float64
	Model    trainer.Model
}

// FoldModels pairs a fold with the models trained over its portions.
type FoldModels struct {
	Fold   dataset.Fold
	Models []PortionModel
}

// UnitError records the failure of a single (fold, portion) training unit.
type UnitError struct {
	Fold     int
	Fraction float64
	Err      error
}

func (e UnitError) Error() string {
	return fmt.Sprintf("fold %d portion %v: %v", e.Fold, e.Fraction, e.Err)
}

// Options configures the training fan-out.
type Options struct {
	// ContinueOnError proceeds with partial results when a training unit
	// fails, instead of aborting the whole run. Failed units are still
	// reported either way.
	ContinueOnError bool
	// Progress draws a progress bar over the training units.
	Progress bool
	// Trainer is passed through to the single-model trainer opaquely.
	Trainer trainer.Options
}

// TrainFolds trains one model per (fold, portion) pair by delegating to t.
// Units are independent and run in parallel. A failing unit never blocks or
// corrupts its siblings; whether it aborts the run is decided by
// opts.ContinueOnError.
func TrainFolds(folds []dataset.Fold, t trainer.Trainer, config pipeline.LabelConfig, opts Options) ([]FoldModels, []UnitError, error) {
	type unit struct {
		fold    int
		portion int
	}
	var units []unit
	for i, f := range folds {
		for j := range f.Portions {
			units = append(units, unit{fold: i, portion: j})
		}
	}

	models := make([]FoldModels, len(folds))
	for i, f := range folds {
		models[i] = FoldModels{Fold: f, Models: make([]PortionModel, len(f.Portions))}
	}

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(len(units))
	}

	var (
		mu       sync.Mutex
		failures []UnitError
	)
	sem := make(chan bool, runtime.NumCPU())
	for _, u := range units {
		sem <- true
		go func(u unit) {
			defer func() { <-sem }()
			f := folds[u.fold]
			p := f.Portions[u.portion]
			name := fmt.Sprintf("fold%d-%s", f.ID, uuid.New())
			m, err := t.Train(name, corpus.MemorySource(p.Documents), config, opts.Trainer)
			mu.Lock()
			if err != nil {
				failures = append(failures, UnitError{Fold: f.ID, Fraction: p.Fraction, Err: err})
			} else {
				models[u.fold].Models[u.portion] = PortionModel{Fraction: p.Fraction, Model: m}
			}
			mu.Unlock()
			if bar != nil {
				bar.Increment()
			}
		}(u)
	}

	// Wait until the last goroutine has read from the semaphore.
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
	if bar != nil {
		bar.Finish()
	}

	if len(failures) > 0 && !opts.ContinueOnError {
		return nil, failures, errors.Errorf("%d of %d training units failed", len(failures), len(units))
	}

	// Drop the units that failed so downstream stages only see trained models.
	for i := range models {
		kept := models[i].Models[:0]
		for _, pm := range models[i].Models {
			if pm.Model != nil {
				kept = append(kept, pm)
			}
		}
		models[i].Models = kept
	}

	return models, failures, nil
}
