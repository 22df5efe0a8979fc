package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spigell/cv-tailor/internal/utils"
	"gopkg.in/yaml.v3"
)

// Status is the position of a job in its lifecycle.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusGenerated Status = "GENERATED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusDone      Status = "DONE"
	StatusFailed    Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusGenerated, StatusFailed},
	StatusGenerated: {StatusApproved, StatusRejected, StatusFailed},
	StatusApproved:  {StatusDone, StatusFailed},
}

// ErrInvalidTransition is returned for moves the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid state transition")

var now = func() time.Time { return time.Now().UTC() }

// Terminal reports whether no further work happens in this status.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusDone || s == StatusFailed
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition is one recorded status change.
type Transition struct {
	From Status    `yaml:"from"`
	To   Status    `yaml:"to"`
	At   time.Time `yaml:"at"`
	Note string    `yaml:"note,omitempty"`
}

// State is the checkpointed progress of one job.
type State struct {
	JobID        string       `yaml:"job_id"`
	Source       string       `yaml:"source"`
	Status       Status       `yaml:"status"`
	DraftPath    string       `yaml:"draft_path,omitempty"`
	DocumentPath string       `yaml:"document_path,omitempty"`
	Approved     bool         `yaml:"approved"`
	FinalPath    string       `yaml:"final_path,omitempty"`
	Error        string       `yaml:"error,omitempty"`
	ErrorKind    ErrorKind    `yaml:"error_kind,omitempty"`
	UpdatedAt    time.Time    `yaml:"updated_at"`
	History      []Transition `yaml:"history,omitempty"`
}

// NewState returns the initial PENDING state of a job.
func NewState(jobID, source string) *State {
	return &State{
		JobID:     jobID,
		Source:    source,
		Status:    StatusPending,
		UpdatedAt: now(),
	}
}

// Transition moves the state to the given status.
func (s *State) Transition(to Status, note string) error {
	if !CanTransition(s.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, to)
	}

	s.record(to, note)
	if to == StatusApproved {
		s.Approved = true
	}

	return nil
}

// Fail moves the state to FAILED and records the cause.
func (s *State) Fail(cause error) error {
	if err := s.Transition(StatusFailed, ""); err != nil {
		return err
	}

	if cause != nil {
		s.Error = cause.Error()
		s.ErrorKind = Classify(cause)
	}

	return nil
}

// Reset puts a FAILED job back to PENDING. It is only used on an explicit retry request.
func (s *State) Reset() error {
	if s.Status != StatusFailed {
		return fmt.Errorf("%w: only failed jobs can be retried, status is %s", ErrInvalidTransition, s.Status)
	}

	s.record(StatusPending, "retry")
	s.DraftPath = ""
	s.DocumentPath = ""
	s.FinalPath = ""
	s.Approved = false
	s.Error = ""
	s.ErrorKind = ""

	return nil
}

func (s *State) record(to Status, note string) {
	at := now()
	s.History = append(s.History, Transition{From: s.Status, To: to, At: at, Note: note})
	s.Status = to
	s.UpdatedAt = at
}

// Save writes the checkpoint atomically.
func (s *State) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}

	return nil
}

// LoadState reads a checkpoint. found is false when none exists yet.
func LoadState(path string) (state *State, found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read state: %w", err)
	}

	state = &State{}
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, true, fmt.Errorf("parse state %s: %w", path, err)
	}

	if _, known := transitions[state.Status]; !known && !state.Status.Terminal() {
		return nil, true, fmt.Errorf("state %s has unknown status %q", path, state.Status)
	}

	return state, true, nil
}
