package domain

import (
	"math"
	"time"
)

// UploadPhase is the state of the upload pipeline.
//
//	Idle → Generating → Uploading → Completed | Aborted → Idle
type UploadPhase string

const (
	PhaseIdle       UploadPhase = "idle"
	PhaseGenerating UploadPhase = "generating"
	PhaseUploading  UploadPhase = "uploading"
	PhaseCompleted  UploadPhase = "completed"
	PhaseAborted    UploadPhase = "aborted"
)

// Busy reports whether a run in this phase blocks a new run from starting.
func (p UploadPhase) Busy() bool {
	return p == PhaseGenerating || p == PhaseUploading
}

// OutcomeKind classifies how an upload run ended.
type OutcomeKind string

const (
	OutcomeSucceeded       OutcomeKind = "succeeded"
	OutcomePartiallyFailed OutcomeKind = "partially_failed"
	OutcomeAborted         OutcomeKind = "aborted"
)

// UploadOutcome is the terminal result of one run.
// FailedBatches is non-zero only for OutcomePartiallyFailed.
// Reason is set only for OutcomeAborted.
type UploadOutcome struct {
	Kind          OutcomeKind `json:"kind"`
	FailedBatches int         `json:"failed_batches,omitempty"`
	Reason        string      `json:"reason,omitempty"`
}

// UploadProgress is one progress event, and also the pipeline's snapshot.
// Uploaded counts records attempted, not records confirmed by the store,
// so it only ever grows during a run and always reaches Total on completion.
type UploadProgress struct {
	RunID         string         `json:"run_id,omitempty"`
	Phase         UploadPhase    `json:"phase"`
	Uploaded      int            `json:"uploaded_count"`
	Total         int            `json:"total_count"`
	Percent       int            `json:"percent"`
	FailedBatches int            `json:"failed_batches"`
	Outcome       *UploadOutcome `json:"outcome,omitempty"`
	At            time.Time      `json:"at"`
}

// Percent returns round(uploaded / total * 100). An empty run is complete.
func Percent(uploaded, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(uploaded) / float64(total) * 100))
}
