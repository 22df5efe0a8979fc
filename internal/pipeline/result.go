package pipeline

// JobResult is the outcome of one pass over a job. Failures are reported here, never returned.
type JobResult struct {
	JobID     string
	RunID     string
	State     State
	DraftPath string
	FinalPath string
	// Skipped is set when the job was already terminal and nothing ran.
	Skipped   bool
	Error     string
	ErrorKind ErrorKind
}

// Status is the job status after the pass.
func (r JobResult) Status() Status {
	return r.State.Status
}

// Failed reports whether the job ended in FAILED.
func (r JobResult) Failed() bool {
	return r.State.Status == StatusFailed
}
