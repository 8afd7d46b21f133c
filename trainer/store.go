package trainer

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/peterbourgon/diskv"
)

// CacheMissError indicates a model was not present in a store.
var CacheMissError = errors.New("cache miss error")

// ModelStore persists trained models on disk, gob-encoded and keyed by model
// name. Cross-validation models only need to live long enough to run their
// holdout predictions, so the store is the escape hatch for keeping one.
type ModelStore struct {
	*diskv.Diskv
}

// NewModelStore creates a model store rooted at basePath.
func NewModelStore(basePath string) ModelStore {
	gob.Register(LogisticModel{})
	return ModelStore{diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(s string) []string { return []string{} },
		CacheSizeMax: 4096 * 1024,
	})}
}

// Put writes a model to the store under a name.
func (s ModelStore) Put(name string, model interface{}) error {
	var buff bytes.Buffer
	if err := gob.NewEncoder(&buff).Encode(model); err != nil {
		return err
	}
	return s.Write(name, buff.Bytes())
}

// Get reads the model stored under a name into model.
func (s ModelStore) Get(name string, model interface{}) error {
	b, err := s.Read(name)
	if err != nil {
		return CacheMissError
	}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(model)
}
