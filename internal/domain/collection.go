package domain

// SourceStatus is the per-source outcome of one collection run.
type SourceStatus string

const (
	StatusOK     SourceStatus = "ok"
	StatusFailed SourceStatus = "failed"
)

// CollectionResult aggregates the independent quote and news outcomes of one
// orchestration run. The orchestrator never fails as a whole; failures
// surface here as statuses with their error text.
type CollectionResult struct {
	Symbol      string       `json:"symbol"`
	QuoteStatus SourceStatus `json:"quote_status"`
	NewsStatus  SourceStatus `json:"news_status"`
	QuoteError  string       `json:"quote_error,omitempty"`
	NewsError   string       `json:"news_error,omitempty"`

	MentionsAdded int `json:"mentions_added"`
	SkippedDupe   int `json:"skipped_dupe"`
	SkippedTime   int `json:"skipped_time"`
}

// Failed reports whether the collection failed entirely, which requires
// both sources to have failed.
func (r CollectionResult) Failed() bool {
	return r.QuoteStatus == StatusFailed && r.NewsStatus == StatusFailed
}

// JobState enumerates the lifecycle of a queued collection job.
type JobState string

const (
	JobQueued   JobState = "queued"
	JobStarted  JobState = "started"
	JobFinished JobState = "finished"
	JobFailed   JobState = "failed"
)

// DispatchMode records how a collection request was executed.
type DispatchMode string

const (
	ModeQueued            DispatchMode = "QUEUED"
	ModeRunningInline     DispatchMode = "RUNNING_INLINE"
	ModeNoQueueConfigured DispatchMode = "NO_QUEUE_CONFIGURED"
)

// Dispatch is the outcome of handing a collection run to the dispatcher.
// JobID is empty for inline execution; Result is set only for inline runs.
type Dispatch struct {
	JobID  string            `json:"job_id,omitempty"`
	Mode   DispatchMode      `json:"mode"`
	Result *CollectionResult `json:"result,omitempty"`
}

// JobStatus is the queue backend's view of a dispatched job.
type JobStatus struct {
	ID     string            `json:"id"`
	State  JobState          `json:"state"`
	Result *CollectionResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}
