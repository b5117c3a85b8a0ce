package client

// JobStatus is the remote-reported state of a marking job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether no further transition can occur.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// JobSnapshot is the result of a single status check. Error carries the
// remote-supplied message when Status is failed.
type JobSnapshot struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// Feedback holds the structured feedback attached to a marking result.
type Feedback struct {
	Summary             string   `json:"summary"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	DetailedComments    []string `json:"detailed_comments"`
}

// MarkingResult is the immutable value returned by the marking service once
// a job has completed. MarkedAt is whatever timestamp string the service
// produced; it is not validated locally.
type MarkingResult struct {
	TMAID     string   `json:"tma_id"`
	StudentID string   `json:"student_id"`
	Score     float64  `json:"score"`
	Grade     string   `json:"grade"`
	Feedback  Feedback `json:"feedback"`
	MarkedAt  string   `json:"marked_at"`
}

// PendingMarking identifies an accepted submission whose marking job has not
// been waited on. Both handles are required to resume the workflow later.
type PendingMarking struct {
	TMAID string `json:"tma_id"`
	JobID string `json:"job_id"`
}

// WorkflowOutcome is the tagged result of RunWorkflow: exactly one of
// Pending or Result is set, depending on whether the caller waited.
type WorkflowOutcome struct {
	Pending *PendingMarking `json:"pending,omitempty"`
	Result  *MarkingResult  `json:"result,omitempty"`
}

// WorkflowRequest bundles the inputs of the upload/submit/poll/fetch
// convenience workflow.
type WorkflowRequest struct {
	FilePath     string
	StudentID    string
	Rubric       string
	AutoFeedback bool
	Wait         bool
}

type uploadResponse struct {
	TMAID string `json:"tma_id"`
}

type markRequest struct {
	Rubric       string `json:"rubric"`
	AutoFeedback bool   `json:"auto_feedback"`
}

type markResponse struct {
	JobID string `json:"job_id"`
}

type jobStatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
