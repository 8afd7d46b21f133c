package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hscells/alloy/pipeline"
)

func TestDefaultThreshold(t *testing.T) {
	exclusive := pipeline.LabelConfig{
		Labels: []string{"a", "b", "c", "d"},
		Task:   pipeline.Exclusive,
	}
	assert.Equal(t, 0.25, exclusive.DefaultThreshold())

	independent := pipeline.LabelConfig{
		Labels: []string{"a", "b", "c", "d"},
		Task:   pipeline.Independent,
	}
	assert.Equal(t, 0.5, independent.DefaultThreshold())
}

func TestGoldLabelsLastWriteWins(t *testing.T) {
	doc := pipeline.Document{
		ID: "d1",
		Annotations: []pipeline.Annotation{
			{Label: "a", Positive: true},
			{Label: "b", Positive: false},
			{Label: "a", Positive: false},
		},
	}
	gold := doc.GoldLabels()
	assert.False(t, gold["a"])
	assert.False(t, gold["b"])
	_, ok := gold["c"]
	assert.False(t, ok)
}
