package pipeline

// TaskType determines how the labels of a task relate to each other.
type TaskType uint8

const (
	// Exclusive tasks assign exactly one label per document.
	Exclusive TaskType = iota
	// Independent tasks assign any number of labels per document.
	Independent
)

// LabelConfig declares the label universe of a task and how its labels relate.
type LabelConfig struct {
	Labels []string
	Task   TaskType
}

// Contains reports whether a label is part of the declared label universe.
func (c LabelConfig) Contains(label string) bool {
	for _, l := range c.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// DefaultThreshold is the decision threshold used for a label when a model
// does not supply one. Mutually-exclusive tasks spread probability mass over
// the labels, so the threshold is 1/|labels|; independent tasks use 0.5.
func (c LabelConfig) DefaultThreshold() float64 {
	if c.Task == Exclusive {
		return 1.0 / float64(len(c.Labels))
	}
	return 0.5
}
