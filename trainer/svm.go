package trainer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	libSvm "github.com/ewalker544/libsvm-go"
	"github.com/go-errors/errors"

	"github.com/hscells/alloy/dataset"
	"github.com/hscells/alloy/features"
	"github.com/hscells/alloy/pipeline"
)

// SVMTrainer trains one C-SVC classifier per label using libsvm with an RBF
// kernel. libsvm reads training problems from disk, so the trainer writes
// one libsvm-format problem file per (model, label) under Dir.
type SVMTrainer struct {
	// C and Gamma override the libsvm defaults when positive.
	C     float64
	Gamma float64
	// Dir is where problem files are written. Defaults to the system
	// temporary directory.
	Dir string
}

// SVMModel wraps one libsvm model per label.
type SVMModel struct {
	models  map[string]*libSvm.Model
	encoder *features.Encoder
}

func (t SVMTrainer) Train(name string, src pipeline.Source, config pipeline.LabelConfig, opts Options) (Model, error) {
	examples, encoder, err := dataset.Build(src, config)
	if err != nil {
		return nil, err
	}

	param := libSvm.NewParameter()
	param.SvmType = libSvm.C_SVC
	param.KernelType = libSvm.RBF
	param.NumCPU = runtime.NumCPU()
	if t.C > 0 {
		param.C = t.C
	}
	if t.Gamma > 0 {
		param.Gamma = t.Gamma
	}

	dir := t.Dir
	if len(dir) == 0 {
		dir = os.TempDir()
	}

	m := &SVMModel{
		models:  make(map[string]*libSvm.Model, len(config.Labels)),
		encoder: encoder,
	}
	for _, label := range config.Labels {
		problemFile := filepath.Join(dir, fmt.Sprintf("%s-%s.problem", name, label))
		if err := writeProblem(problemFile, examples[label]); err != nil {
			return nil, err
		}
		problem, err := libSvm.NewProblem(problemFile, param)
		if err != nil {
			return nil, errors.Errorf("loading training problem for label %s: %v", label, err)
		}
		model := libSvm.NewModel(param)
		if err := model.Train(problem); err != nil {
			return nil, errors.Errorf("training model for label %s: %v", label, err)
		}
		m.models[label] = model
	}

	return m, nil
}

// writeProblem writes examples in libsvm format: the label followed by
// 1-indexed feature:value pairs for the non-zero features.
func writeProblem(path string, examples []dataset.LabeledExample) error {
	buff := bytes.NewBufferString("")
	for _, example := range examples {
		line := fmt.Sprintf("%v", example.Label)
		for i, x := range example.Features {
			if x != 0 {
				line += fmt.Sprintf(" %d:%v", i+1, x)
			}
		}
		buff.WriteString(line + "\n")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(buff.Bytes())
	return err
}

// Predict returns the predicted class per label. C-SVC predicts a hard 0/1
// class, which stands in for a degenerate probability.
func (m *SVMModel) Predict(doc pipeline.Document) (map[string]float64, error) {
	v, err := m.encoder.Encode(doc)
	if err != nil {
		return nil, err
	}
	x := make(map[int]float64)
	for i, value := range v {
		if value != 0 {
			x[i+1] = value
		}
	}
	predictions := make(map[string]float64, len(m.models))
	for label, model := range m.models {
		predictions[label] = model.Predict(x)
	}
	return predictions, nil
}

// Thresholds returns 0.5 for every label, the midpoint of the hard 0/1
// classes C-SVC predicts.
func (m *SVMModel) Thresholds() map[string]float64 {
	thresholds := make(map[string]float64, len(m.models))
	for label := range m.models {
		thresholds[label] = 0.5
	}
	return thresholds
}
