package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/xtgo/set"

	"github.com/hscells/alloy/pipeline"
)

// Portion is a fraction of a fold's training-complement documents. Portions
// within a fold are nested: the documents of a smaller fraction are a prefix
// of the documents of every larger fraction.
type Portion struct {
	Fraction  float64
	Documents []pipeline.Document
}

// Fold is one partition of a collection into a holdout set, which is never
// trained on, and a series of training portions drawn from the remaining
// documents.
type Fold struct {
	ID       int
	Holdout  []pipeline.Document
	Portions []Portion
}

// Split partitions a collection into numFolds folds with nested training
// portions of the given fractions. Splitting is deterministic: the same seed
// always produces identical folds.
func Split(src pipeline.Source, numFolds int, fractions []float64, seed int64) ([]Fold, error) {
	if numFolds < 2 {
		return nil, errors.Errorf("cannot cross-validate with %d folds, need at least 2", numFolds)
	}
	for _, p := range fractions {
		if p <= 0 || p > 1 {
			return nil, errors.Errorf("portion fraction %v is outside (0,1]", p)
		}
	}

	docs, err := src()
	if err != nil {
		return nil, errors.Wrap(err, "reading documents for fold creation")
	}
	if len(docs) < numFolds {
		return nil, errors.Errorf("cannot split %d documents into %d folds", len(docs), numFolds)
	}

	fracs := make([]float64, len(fractions))
	copy(fracs, fractions)
	sort.Float64s(fracs)

	shuffled := make([]pipeline.Document, len(docs))
	for i, j := range rand.New(rand.NewSource(seed)).Perm(len(docs)) {
		shuffled[i] = docs[j]
	}

	folds := make([]Fold, numFolds)
	for i := 0; i < numFolds; i++ {
		var holdout, complement []pipeline.Document
		for j, doc := range shuffled {
			if j%numFolds == i {
				holdout = append(holdout, doc)
			} else {
				complement = append(complement, doc)
			}
		}

		// Reshuffle the complement with a seed derived for this fold so
		// portion sampling is not correlated with the top-level shuffle.
		// Portions are then prefixes of the reshuffled complement, which
		// makes them nested by construction.
		resampled := make([]pipeline.Document, len(complement))
		for j, k := range rand.New(rand.NewSource(subSeed(seed, i))).Perm(len(complement)) {
			resampled[j] = complement[k]
		}

		portions := make([]Portion, len(fracs))
		for k, p := range fracs {
			n := int(math.Round(p * float64(len(resampled))))
			portions[k] = Portion{Fraction: p, Documents: resampled[:n]}
		}

		folds[i] = Fold{ID: i, Holdout: holdout, Portions: portions}
	}

	if err := verifyPartition(docs, folds); err != nil {
		return nil, err
	}

	return folds, nil
}

// subSeed derives a deterministic per-fold seed. It is a pure function of its
// arguments, so parallel callers share no generator state.
func subSeed(seed int64, fold int) int64 {
	return seed*1000003 + int64(fold)*8191 + 1
}

// verifyPartition checks that the fold holdout sets exactly partition the
// collection: full coverage and no overlap.
func verifyPartition(docs []pipeline.Document, folds []Fold) error {
	var ids sort.StringSlice
	for _, f := range folds {
		for _, d := range f.Holdout {
			ids = append(ids, d.ID)
		}
	}
	if len(ids) != len(docs) {
		return errors.Errorf("fold holdouts cover %d documents, expected %d", len(ids), len(docs))
	}
	sort.Sort(ids)
	if n := set.Uniq(ids); n != len(docs) {
		return errors.Errorf("fold holdouts overlap: %d distinct documents across %d holdout entries", n, len(ids))
	}
	return nil
}
