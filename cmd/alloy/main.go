// Package main trains classifiers over a directory of annotated documents
// and reports per-label learning curves.
package main

import (
	"io/ioutil"
	"log"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/magiconair/properties"

	"github.com/hscells/alloy"
	"github.com/hscells/alloy/corpus"
	"github.com/hscells/alloy/crossval"
	"github.com/hscells/alloy/output"
	"github.com/hscells/alloy/pipeline"
	"github.com/hscells/alloy/trainer"
)

type args struct {
	Documents string `arg:"help:Path to a directory of JSON documents.,required"`
	Config    string `arg:"help:Path to an experiment properties file.,required"`
	Output    string `arg:"help:File to write learning curves to (default is stdout)."`
	CSV       bool   `arg:"help:Write curves as CSV instead of JSON."`
}

func (args) Version() string {
	return "alloy 19.Feb.2021"
}

func (args) Description() string {
	return `Train binary classifiers over annotated documents and compute per-label learning curves via cross-validation.`
}

func main() {
	var args args
	arg.MustParse(&args)

	p := properties.MustLoadFile(args.Config, properties.UTF8)

	labels := strings.Split(p.GetString("alloy.labels", ""), ",")
	if len(labels) == 1 && len(labels[0]) == 0 {
		log.Fatal("alloy.labels must be specified in the experiment properties")
	}
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}

	var task pipeline.TaskType
	switch p.GetString("alloy.task", "independent") {
	case "independent":
		task = pipeline.Independent
	case "exclusive":
		task = pipeline.Exclusive
	default:
		log.Fatal("alloy.task must be one of independent, exclusive")
	}

	var fractions []float64
	for _, s := range strings.Split(p.GetString("alloy.portions", "0.25,0.5,0.75,1.0"), ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			log.Fatalf("cannot parse portion fraction %q", s)
		}
		fractions = append(fractions, f)
	}

	var t trainer.Trainer
	switch p.GetString("alloy.trainer", "logistic") {
	case "logistic":
		t = trainer.LogisticTrainer{}
	case "svm":
		t = trainer.SVMTrainer{
			C:     p.GetFloat64("alloy.svm.c", 0),
			Gamma: p.GetFloat64("alloy.svm.gamma", 0),
		}
	default:
		log.Fatal("alloy.trainer must be one of logistic, svm")
	}

	formatter := output.JSONCurveFormatter
	if args.CSV {
		formatter = output.CSVCurveFormatter
	}

	pipe := alloy.NewPipeline(
		corpus.DirectorySource(args.Documents),
		t,
		alloy.Labels(labels, task),
		alloy.Folds(p.GetInt("alloy.folds", 10), p.GetInt64("alloy.seed", 42), fractions...),
		alloy.CurveOutput(formatter),
		alloy.Training(crossval.Options{
			ContinueOnError: p.GetBool("alloy.continue", false),
			Progress:        true,
		}),
	)

	c := make(chan alloy.Result)
	go pipe.Execute(c)

	for result := range c {
		switch result.Type {
		case alloy.Error:
			for _, failure := range result.Failures {
				log.Println(failure)
			}
			log.Fatal(result.Error)
		case alloy.Evaluation:
			for _, evaluation := range result.Evaluations {
				if len(args.Output) > 0 {
					if err := ioutil.WriteFile(args.Output, []byte(evaluation), 0644); err != nil {
						log.Fatal(err)
					}
				} else {
					log.Println(evaluation)
				}
			}
		}
	}
}
