package approval

import (
	"context"
	"fmt"
	"sync"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

type selector interface {
	Run() (int, string, error)
}

func newSelect(label string) selector {
	return &promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}
}

// PromptApprover asks on the terminal. Prompts from concurrent jobs are asked one at a time.
// Anything other than an explicit Yes, including EOF and interrupts, rejects the draft.
type PromptApprover struct {
	mu        sync.Mutex
	newPrompt func(label string) selector
	logger    *zap.Logger
}

func NewPromptApprover(logger *zap.Logger) *PromptApprover {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromptApprover{newPrompt: newSelect, logger: logger}
}

func (p *PromptApprover) Decide(ctx context.Context, job, draftPath string) (Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Pending, err
	}

	prompt := p.newPrompt(fmt.Sprintf("Approve tailored CV for %s (%s)?", job, draftPath))
	_, answer, err := prompt.Run()
	if err != nil {
		p.logger.Warn("approval prompt failed, rejecting draft",
			zap.String("job_id", job),
			zap.Error(err),
		)
		return Rejected, nil
	}

	if answer == PromptYes {
		return Approved, nil
	}
	return Rejected, nil
}
