package model

import "time"

// Outcome classifies what happened to one symbol during a batch run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeSkipped Outcome = "skipped"
	OutcomeError   Outcome = "error"
)

// ItemResult is the per-symbol record of a batch run.
type ItemResult struct {
	Symbol     string      `json:"symbol"`
	Outcome    Outcome     `json:"outcome"`
	Reason     string      `json:"reason,omitempty"`
	Prediction *Prediction `json:"prediction,omitempty"`
}

// Batch is the full result set of one prediction run. Each run replaces the previous one.
type Batch struct {
	RunID       string       `json:"runId"`
	StartedAt   time.Time    `json:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt"`
	Predictions []Prediction `json:"predictions"`
	Items       []ItemResult `json:"items"`
}

// Count returns how many items ended with the given outcome.
func (b *Batch) Count(o Outcome) int {
	n := 0
	for _, it := range b.Items {
		if it.Outcome == o {
			n++
		}
	}
	return n
}

// Omitted returns the items that did not produce a prediction.
func (b *Batch) Omitted() []ItemResult {
	var out []ItemResult
	for _, it := range b.Items {
		if it.Outcome != OutcomeSuccess {
			out = append(out, it)
		}
	}
	return out
}

// Age reports how long ago the batch finished.
func (b *Batch) Age(now time.Time) time.Duration {
	return now.Sub(b.FinishedAt)
}
