// Package pipeline contains the core types that flow through an alloy pipeline.
package pipeline

// Document is a free-text document together with the annotations users have
// made on it. Documents are immutable once loaded.
type Document struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations"`
}

// Annotation is one polarity vote for one label on one document.
type Annotation struct {
	Label    string `json:"label"`
	Positive bool   `json:"positive"`
}

// GoldLabels maps each annotated label on the document to its polarity.
// A label should appear at most once per document; when it does not,
// the last annotation wins.
func (d Document) GoldLabels() map[string]bool {
	gold := make(map[string]bool, len(d.Annotations))
	for _, a := range d.Annotations {
		gold[a.Label] = a.Positive
	}
	return gold
}
