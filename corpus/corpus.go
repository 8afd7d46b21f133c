// Package corpus provides sources for loading annotated document collections.
package corpus

import (
	"encoding/json"
	"io/ioutil"
	"path"

	"github.com/pkg/errors"

	"github.com/hscells/alloy/pipeline"
)

// MemorySource is a source over an in-memory collection. Traversal order is
// the order of the slice.
func MemorySource(docs []pipeline.Document) pipeline.Source {
	return func() ([]pipeline.Document, error) {
		return docs, nil
	}
}

// DirectorySource is a source that reads one JSON document per file from a
// directory. Files are read in name order, so every traversal observes the
// same documents in the same order. Documents that do not match the expected
// schema fail the traversal immediately; metrics computed over silently
// mangled annotations would be wrong in ways that are hard to notice.
func DirectorySource(directory string) pipeline.Source {
	return func() ([]pipeline.Document, error) {
		files, err := ioutil.ReadDir(directory)
		if err != nil {
			return nil, errors.Wrapf(err, "reading document directory %s", directory)
		}

		docs := make([]pipeline.Document, 0, len(files))
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			source, err := ioutil.ReadFile(path.Join(directory, f.Name()))
			if err != nil {
				return nil, errors.Wrapf(err, "reading document %s", f.Name())
			}
			var d pipeline.Document
			if err := json.Unmarshal(source, &d); err != nil {
				return nil, errors.Wrapf(err, "parsing document %s", f.Name())
			}
			if len(d.ID) == 0 {
				d.ID = f.Name()
			}
			for _, a := range d.Annotations {
				if len(a.Label) == 0 {
					return nil, errors.Errorf("document %s has an annotation with no label", d.ID)
				}
			}
			docs = append(docs, d)
		}
		return docs, nil
	}
}
