// Package approval decides whether a generated draft may become the final CV.
package approval

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Decision is the outcome of an approval check.
type Decision string

const (
	Approved Decision = "approved"
	Rejected Decision = "rejected"
	// Pending means no decision yet; the job keeps its draft and is asked again on the next run.
	Pending Decision = "pending"
)

const (
	ApprovedMarker = "APPROVED"
	RejectedMarker = "REJECTED"
)

// Approver decides on the draft of a single job.
type Approver interface {
	Decide(ctx context.Context, job, draftPath string) (Decision, error)
}

// Auto approves every draft.
type Auto struct{}

func (Auto) Decide(context.Context, string, string) (Decision, error) {
	return Approved, nil
}

// Mark records a decision for the job directory dir by writing its marker file
// and removing the opposite one. Pending clears both markers.
func Mark(dir string, decision Decision) error {
	var keep, drop []string
	switch decision {
	case Approved:
		keep, drop = []string{ApprovedMarker}, []string{RejectedMarker}
	case Rejected:
		keep, drop = []string{RejectedMarker}, []string{ApprovedMarker}
	case Pending:
		drop = []string{ApprovedMarker, RejectedMarker}
	default:
		return fmt.Errorf("unknown decision %q", decision)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("job directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("job directory %s is not a directory", dir)
	}

	for _, name := range drop {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s marker: %w", name, err)
		}
	}

	for _, name := range keep {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			return fmt.Errorf("write %s marker: %w", name, err)
		}
	}

	return nil
}
