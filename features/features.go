// Package features provides the two-pass feature pipeline used to turn
// documents into fixed-dimension vectors. A Builder accumulates vocabulary
// over one full pass of a collection, and is then finalised into an Encoder.
// Only an Encoder can encode documents, so the type boundary prevents
// encoding before the dimension has been fixed.
package features

import (
	"strings"

	"github.com/bbalet/stopwords"
	lru "github.com/hashicorp/golang-lru"
	prose "github.com/jdkato/prose/v2"
	"github.com/pkg/errors"
	"github.com/reiver/go-porterstemmer"

	"github.com/hscells/alloy/pipeline"
)

// How many encoded documents an Encoder keeps in memory.
const cacheSize = 4096

// Vector is a fixed-dimension feature vector for one document.
type Vector []float64

// Terms tokenises text into lowercased, stopword-cleaned, stemmed terms.
// The same text always produces the same terms in the same order.
func Terms(text string) ([]string, error) {
	clean := stopwords.CleanString(text, "en", false)
	d, err := prose.NewDocument(clean, prose.WithTagging(false), prose.WithExtraction(false))
	if err != nil {
		return nil, errors.Wrap(err, "tokenising document text")
	}
	tokens := d.Tokens()
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		term := porterstemmer.StemString(strings.ToLower(token.Text))
		if len(term) == 0 {
			continue
		}
		terms = append(terms, term)
	}
	return terms, nil
}

// Builder accumulates the vocabulary of a collection during the priming pass.
type Builder struct {
	vocabulary map[string]int
}

// NewBuilder creates an empty vocabulary builder.
func NewBuilder() *Builder {
	return &Builder{vocabulary: make(map[string]int)}
}

// Add streams one document through the builder, assigning an index to each
// term not seen before. Indices follow first-seen order, so an order-stable
// stream produces an identical vocabulary on every run.
func (b *Builder) Add(doc pipeline.Document) error {
	terms, err := Terms(doc.Text)
	if err != nil {
		return errors.Wrapf(err, "priming document %s", doc.ID)
	}
	for _, term := range terms {
		if _, ok := b.vocabulary[term]; !ok {
			b.vocabulary[term] = len(b.vocabulary)
		}
	}
	return nil
}

// Finalize fixes the vocabulary and returns the encoder for it. The builder
// should not be added to after it has been finalised.
func (b *Builder) Finalize() *Encoder {
	return &Encoder{Vocabulary: b.vocabulary}
}

// Encoder encodes documents into term-frequency vectors over a fixed
// vocabulary. Encoding is deterministic: the same document always produces
// the same vector.
type Encoder struct {
	Vocabulary map[string]int

	cache *lru.Cache
}

// Dimension is the size of vectors produced by the encoder.
func (e *Encoder) Dimension() int {
	return len(e.Vocabulary)
}

// Encode produces the term-frequency vector for a document. Encoded vectors
// are cached by document ID so a document annotated with many labels is only
// tokenised once.
func (e *Encoder) Encode(doc pipeline.Document) (Vector, error) {
	if e.cache == nil {
		e.cache, _ = lru.New(cacheSize)
	}
	if v, ok := e.cache.Get(doc.ID); ok {
		return v.(Vector), nil
	}
	terms, err := Terms(doc.Text)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding document %s", doc.ID)
	}
	v := make(Vector, len(e.Vocabulary))
	for _, term := range terms {
		if i, ok := e.Vocabulary[term]; ok {
			v[i]++
		}
	}
	e.cache.Add(doc.ID, v)
	return v, nil
}
