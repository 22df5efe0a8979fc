package approval

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// MarkerApprover reads decisions from marker files next to the draft.
// It never waits: without a marker the decision is Pending.
type MarkerApprover struct {
	logger *zap.Logger
}

func NewMarkerApprover(logger *zap.Logger) *MarkerApprover {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarkerApprover{logger: logger}
}

func (m *MarkerApprover) Decide(_ context.Context, job, draftPath string) (Decision, error) {
	dir := filepath.Dir(draftPath)

	approved, err := exists(filepath.Join(dir, ApprovedMarker))
	if err != nil {
		return Pending, err
	}

	rejected, err := exists(filepath.Join(dir, RejectedMarker))
	if err != nil {
		return Pending, err
	}

	switch {
	case approved && rejected:
		m.logger.Warn("conflicting approval markers, leaving job pending",
			zap.String("job_id", job),
			zap.String("dir", dir),
		)
		return Pending, nil
	case approved:
		return Approved, nil
	case rejected:
		return Rejected, nil
	default:
		return Pending, nil
	}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
