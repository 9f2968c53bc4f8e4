package models

import "math"

// Query is what is sent to the answering service.
type Query struct {
	Question  string  `json:"question"`
	UserID    string  `json:"user_id"`
	TopK      int     `json:"top_k,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Answer is the service reply. RelevantChunks keeps server order.
type Answer struct {
	Text           string   `json:"answer"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Source         *string  `json:"source,omitempty"`
	RelevantChunks []Chunk  `json:"relevant_chunks"`
}

// Clone returns a deep copy of a.
func (a *Answer) Clone() *Answer {
	if a == nil {
		return nil
	}
	out := *a
	out.Confidence = clonePtr(a.Confidence)
	out.Source = clonePtr(a.Source)
	if a.RelevantChunks != nil {
		out.RelevantChunks = make([]Chunk, len(a.RelevantChunks))
		for i, c := range a.RelevantChunks {
			c.Similarity = clonePtr(c.Similarity)
			out.RelevantChunks[i] = c
		}
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Chunk is an excerpt backing an answer.
type Chunk struct {
	Text       string   `json:"text"`
	Source     string   `json:"source"`
	Similarity *float64 `json:"similarity,omitempty"`
}

// SimilarityPercent returns the similarity as a rounded percentage in
// [0,100]. ok is false when the service sent no score.
func (c Chunk) SimilarityPercent() (pct int, ok bool) {
	if c.Similarity == nil {
		return 0, false
	}
	return percent(*c.Similarity), true
}

// ConfidencePercent is SimilarityPercent for the answer confidence.
func (a Answer) ConfidencePercent() (pct int, ok bool) {
	if a.Confidence == nil {
		return 0, false
	}
	return percent(*a.Confidence), true
}

func percent(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	p := int(math.Round(f * 100))
	return min(max(p, 0), 100)
}

// QueryPhase is the Query Session state.
type QueryPhase string

const (
	QueryIdle     QueryPhase = "idle"
	QueryPending  QueryPhase = "pending"
	QueryAnswered QueryPhase = "answered"
	QueryFailed   QueryPhase = "failed"
)

// QueryState is what the presentation layer renders for the Query Session.
// Answer is set only when Phase is QueryAnswered, Err only when QueryFailed.
type QueryState struct {
	Phase    QueryPhase
	Question string
	Answer   *Answer
	Err      error
	Seq      uint64
}
