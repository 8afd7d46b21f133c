package crossval

import (
	"runtime"
	"sync"

	"github.com/hscells/alloy/pipeline"
)

// Prediction is one thresholded model decision against the gold annotation
// for one (document, label) pair, keyed by the (fold, portion) the model was
// trained under.
type Prediction struct {
	Fold      int
	Fraction  float64
	Label     string
	Predicted bool
	Actual    bool
}

// Collect runs every portion model over its fold's holdout documents and
// records (predicted, gold) outcomes for every configured label. A label is
// predicted positive when its probability reaches the model's threshold for
// that label, or the task's default threshold when the model supplies none.
// A label absent from a document's annotations is treated as gold-negative.
// Folds are processed in parallel; the output order is fold order.
func Collect(models []FoldModels, config pipeline.LabelConfig) ([]Prediction, error) {
	var (
		mu          sync.Mutex
		predictions = make([][]Prediction, len(models))
		firstErr    error
	)
	sem := make(chan bool, runtime.NumCPU())
	for i, fm := range models {
		sem <- true
		go func(i int, fm FoldModels) {
			defer func() { <-sem }()
			var local []Prediction
			for _, pm := range fm.Models {
				thresholds := pm.Model.Thresholds()
				for _, doc := range fm.Fold.Holdout {
					probabilities, err := pm.Model.Predict(doc)
					if err != nil {
						mu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						mu.Unlock()
						return
					}
					gold := doc.GoldLabels()
					for _, label := range config.Labels {
						threshold, ok := thresholds[label]
						if !ok {
							threshold = config.DefaultThreshold()
						}
						local = append(local, Prediction{
							Fold:      fm.Fold.ID,
							Fraction:  pm.Fraction,
							Label:     label,
							Predicted: probabilities[label] >= threshold,
							Actual:    gold[label],
						})
					}
				}
			}
			mu.Lock()
			predictions[i] = local
			mu.Unlock()
		}(i, fm)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}

	if firstErr != nil {
		return nil, firstErr
	}
	var flat []Prediction
	for _, p := range predictions {
		flat = append(flat, p...)
	}
	return flat, nil
}
