// Package dataset turns annotated document collections into training data:
// per-label labelled examples, and fold/portion splits for cross-validation.
package dataset

import (
	"log"

	"github.com/pkg/errors"

	"github.com/hscells/alloy/features"
	"github.com/hscells/alloy/pipeline"
)

// LabeledExample pairs an encoded document with a binary label.
type LabeledExample struct {
	Features features.Vector
	Label    float64
}

// Build converts a document collection into per-label collections of
// labelled examples. The first traversal primes the feature pipeline to fix
// the vector dimension; the second encodes each document once and derives
// one example per annotation (1.0 for positive votes, 0.0 for negative).
// The source must produce the identical collection on both traversals.
func Build(src pipeline.Source, config pipeline.LabelConfig) (map[string][]LabeledExample, *features.Encoder, error) {
	docs, err := src()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading documents for priming pass")
	}
	builder := features.NewBuilder()
	for _, doc := range docs {
		if err := builder.Add(doc); err != nil {
			return nil, nil, err
		}
	}
	encoder := builder.Finalize()

	docs, err = src()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading documents for encoding pass")
	}
	examples := make(map[string][]LabeledExample)
	positives := make(map[string]int)
	negatives := make(map[string]int)
	for _, doc := range docs {
		if len(doc.Annotations) == 0 {
			continue
		}
		// Encode once per document, not once per annotation.
		v, err := encoder.Encode(doc)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range doc.Annotations {
			if !config.Contains(a.Label) {
				return nil, nil, errors.Errorf("document %s is annotated with %q, which is not a configured label", doc.ID, a.Label)
			}
			label := 0.0
			if a.Positive {
				label = 1.0
				positives[a.Label]++
			} else {
				negatives[a.Label]++
			}
			examples[a.Label] = append(examples[a.Label], LabeledExample{Features: v, Label: label})
		}
	}

	for _, label := range config.Labels {
		log.Printf("label %s: %d examples (%d positive, %d negative)\n", label, len(examples[label]), positives[label], negatives[label])
	}

	return examples, encoder, nil
}
