package pipeline

// Source produces a fresh, order-stable traversal of the same document
// collection on every call. The training pipeline reads a collection at
// least twice (once to prime the feature pipeline and once to encode), so
// two calls to a Source must observe the identical documents in the
// identical order. A Source that violates this produces feature vectors of
// inconsistent dimensionality.
type Source func() ([]Document, error)
