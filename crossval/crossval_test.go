package crossval_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/hscells/alloy/corpus"
	"github.com/hscells/alloy/crossval"
	"github.com/hscells/alloy/dataset"
	"github.com/hscells/alloy/pipeline"
	"github.com/hscells/alloy/trainer"
)

// keywordModel predicts a label positive when the label appears in the text.
type keywordModel struct {
	labels []string
}

func (m keywordModel) Predict(doc pipeline.Document) (map[string]float64, error) {
	probabilities := make(map[string]float64, len(m.labels))
	for _, label := range m.labels {
		if strings.Contains(doc.Text, label) {
			probabilities[label] = 1
		}
	}
	return probabilities, nil
}

func (m keywordModel) Thresholds() map[string]float64 {
	return nil
}

// keywordTrainer ignores the training documents entirely.
type keywordTrainer struct{}

func (keywordTrainer) Train(name string, src pipeline.Source, config pipeline.LabelConfig, opts trainer.Options) (trainer.Model, error) {
	return keywordModel{labels: config.Labels}, nil
}

// brittleTrainer fails for portions of a particular document count.
type brittleTrainer struct {
	failSize int
}

func (t brittleTrainer) Train(name string, src pipeline.Source, config pipeline.LabelConfig, opts trainer.Options) (trainer.Model, error) {
	docs, err := src()
	if err != nil {
		return nil, err
	}
	if len(docs) == t.failSize {
		return nil, errors.New("trainer exploded")
	}
	return keywordModel{labels: config.Labels}, nil
}

func collection(n int) []pipeline.Document {
	docs := make([]pipeline.Document, n)
	for i := range docs {
		docs[i] = pipeline.Document{ID: fmt.Sprintf("d%d", i), Text: fmt.Sprintf("document %d", i)}
	}
	return docs
}

func config() pipeline.LabelConfig {
	return pipeline.LabelConfig{Labels: []string{"Intent"}, Task: pipeline.Independent}
}

func TestTrainFoldsOneModelPerUnit(t *testing.T) {
	folds, err := dataset.Split(corpus.MemorySource(collection(10)), 2, []float64{0.5, 1.0}, 42)
	if err != nil {
		t.Fatal(err)
	}
	models, failures, err := crossval.TrainFolds(folds, keywordTrainer{}, config(), crossval.Options{})
	if err != nil {
		t.Fatal(err)
	}
	assert.Empty(t, failures)
	assert.Equal(t, 2, len(models))
	for _, fm := range models {
		assert.Equal(t, 2, len(fm.Models))
		for _, pm := range fm.Models {
			assert.NotNil(t, pm.Model)
		}
	}
}

func TestTrainFoldsAbortsOnFailure(t *testing.T) {
	folds, err := dataset.Split(corpus.MemorySource(collection(10)), 2, []float64{0.5, 1.0}, 42)
	if err != nil {
		t.Fatal(err)
	}
	// The half portion of a 5-document complement rounds to 3 documents,
	// so one unit per fold fails.
	_, failures, err := crossval.TrainFolds(folds, brittleTrainer{failSize: 3}, config(), crossval.Options{})
	assert.Error(t, err)
	assert.Equal(t, 2, len(failures))
}

func TestTrainFoldsContinuesOnFailure(t *testing.T) {
	folds, err := dataset.Split(corpus.MemorySource(collection(10)), 2, []float64{0.5, 1.0}, 42)
	if err != nil {
		t.Fatal(err)
	}
	models, failures, err := crossval.TrainFolds(folds, brittleTrainer{failSize: 3}, config(), crossval.Options{ContinueOnError: true})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, len(failures))
	for _, failure := range failures {
		assert.Equal(t, 0.5, failure.Fraction)
		assert.Contains(t, failure.Error(), "trainer exploded")
	}
	// The surviving unit in each fold is the full portion.
	for _, fm := range models {
		assert.Equal(t, 1, len(fm.Models))
		assert.Equal(t, 1.0, fm.Models[0].Fraction)
	}
}
