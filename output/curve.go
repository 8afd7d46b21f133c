// Package output provides formats for writing learning-curve results.
package output

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hscells/alloy/eval"
)

// CurveFormatter formats assembled learning curves for output.
type CurveFormatter func(curves []eval.LearningCurve) (string, error)

type jsonPoint struct {
	Portion float64 `json:"portion"`
	Score   float64 `json:"score"`
	Folds   int     `json:"folds"`
}

// JSONCurveFormatter outputs curves as label -> metric -> ordered points.
func JSONCurveFormatter(curves []eval.LearningCurve) (string, error) {
	m := make(map[string]map[string][]jsonPoint)
	for _, curve := range curves {
		if _, ok := m[curve.Label]; !ok {
			m[curve.Label] = make(map[string][]jsonPoint)
		}
		points := make([]jsonPoint, len(curve.Points))
		for i, p := range curve.Points {
			points[i] = jsonPoint{Portion: p.Fraction, Score: p.Score, Folds: p.Folds}
		}
		m[curve.Label][curve.Metric.String()] = points
	}
	v, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return "", err
	}
	return string(v), nil
}

// CSVCurveFormatter outputs one row per curve point.
func CSVCurveFormatter(curves []eval.LearningCurve) (string, error) {
	var b strings.Builder
	b.WriteString("label,metric,portion,score,folds\n")
	for _, curve := range curves {
		for _, p := range curve.Points {
			b.WriteString(curve.Label)
			b.WriteString(",")
			b.WriteString(curve.Metric.String())
			b.WriteString(",")
			b.WriteString(strconv.FormatFloat(p.Fraction, 'f', -1, 64))
			b.WriteString(",")
			b.WriteString(strconv.FormatFloat(p.Score, 'f', -1, 64))
			b.WriteString(",")
			b.WriteString(strconv.Itoa(p.Folds))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
