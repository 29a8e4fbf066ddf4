package domain

import (
	"encoding/json"
	"fmt"
)

// Document is a named text handed to the scorer for one pass.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// RawDocument is an undecoded upload, as read from disk or a request body.
type RawDocument struct {
	Name string
	Data []byte
}

// Vocabulary lists the distinct terms of a batch. Index i of every
// FeatureVector in the batch refers to Vocabulary[i].
type Vocabulary []string

// FeatureVector holds one non-negative weight per vocabulary term.
type FeatureVector []float64

// Label classifies a pair against the threshold.
type Label int

const (
	// LabelLow marks a pair scoring below the threshold.
	LabelLow Label = iota
	// LabelHigh marks a pair scoring at or above the threshold.
	LabelHigh
)

// String returns HIGH or LOW.
func (l Label) String() string {
	if l == LabelHigh {
		return "HIGH"
	}
	return "LOW"
}

// Description returns the human wording shown next to a score.
func (l Label) Description() string {
	if l == LabelHigh {
		return "High Similarity"
	}
	return "Low Similarity"
}

// MarshalJSON encodes the label as its string form.
func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts "HIGH" or "LOW".
func (l *Label) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "HIGH":
		*l = LabelHigh
	case "LOW":
		*l = LabelLow
	default:
		return fmt.Errorf("unknown label %q", s)
	}
	return nil
}

// PairResult holds the similarity of one unordered pair of documents.
type PairResult struct {
	NameA      string  `json:"file_1"`
	NameB      string  `json:"file_2"`
	Similarity float64 `json:"similarity"`
	Label      Label   `json:"label"`
}

// Report is the outcome of decoding and scoring a batch of uploads.
type Report struct {
	Threshold float64         `json:"threshold"`
	Documents []string        `json:"documents"`
	Pairs     []PairResult    `json:"pairs"`
	Failures  []DocumentError `json:"failures,omitempty"`
}

// HighCount returns the number of pairs labelled HIGH.
func (r Report) HighCount() int {
	n := 0
	for _, p := range r.Pairs {
		if p.Label == LabelHigh {
			n++
		}
	}
	return n
}
