package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hscells/alloy/features"
	"github.com/hscells/alloy/pipeline"
)

var docs = []pipeline.Document{
	{ID: "d1", Text: "the curious cat sat on the mat"},
	{ID: "d2", Text: "a dog chased the curious cat"},
	{ID: "d3", Text: "mats and dogs and cats"},
}

func prime(t *testing.T) *features.Encoder {
	builder := features.NewBuilder()
	for _, doc := range docs {
		if err := builder.Add(doc); err != nil {
			t.Fatal(err)
		}
	}
	return builder.Finalize()
}

func TestEncodeDeterminism(t *testing.T) {
	encoder := prime(t)
	assert.True(t, encoder.Dimension() > 0)

	a, err := encoder.Encode(docs[0])
	if err != nil {
		t.Fatal(err)
	}
	b, err := encoder.Encode(docs[0])
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, a, b)
	assert.Equal(t, encoder.Dimension(), len(a))
}

func TestEncodeFixedDimension(t *testing.T) {
	encoder := prime(t)

	// A document full of unseen terms still encodes to the primed dimension.
	v, err := encoder.Encode(pipeline.Document{ID: "d4", Text: "zebras graze quietly"})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, encoder.Dimension(), len(v))
	for _, x := range v {
		assert.Equal(t, 0.0, x)
	}
}

func TestTermsStemAndClean(t *testing.T) {
	a, err := features.Terms("the cats sat")
	if err != nil {
		t.Fatal(err)
	}
	b, err := features.Terms("the cats sat")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, a, b)
	// Stopwords never survive cleaning.
	for _, term := range a {
		assert.NotEqual(t, "the", term)
	}
}

func TestVocabularyFirstSeenOrder(t *testing.T) {
	a := prime(t)
	b := prime(t)
	assert.Equal(t, a.Vocabulary, b.Vocabulary)
}
