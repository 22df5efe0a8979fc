package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spigell/cv-tailor/internal/approval"
	"github.com/spigell/cv-tailor/internal/pipeline"
)

var approveCmd = &cobra.Command{
	Use:   "approve <job-id>...",
	Short: "Approve generated drafts; the next run converts them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decide(cmd, args, approval.Approved)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <job-id>...",
	Short: "Reject generated drafts; they are never converted",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		decide(cmd, args, approval.Rejected)
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
}

func decide(cmd *cobra.Command, ids []string, decision approval.Decision) {
	config, err := getConfig()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	failed := false
	for _, id := range ids {
		if err := markJob(config.OutputDir, id, decision); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", id, err)
			failed = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, decision)
	}

	if failed {
		log.Fatal("some jobs were not marked")
	}
}

func markJob(outputDir, id string, decision approval.Decision) error {
	dir := filepath.Join(outputDir, id)

	st, found, err := pipeline.LoadState(filepath.Join(dir, pipeline.StateFile))
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no draft yet, run the pipeline first")
	}
	if st.Status != pipeline.StatusGenerated {
		return fmt.Errorf("job is %s, only %s jobs await a decision", st.Status, pipeline.StatusGenerated)
	}

	return approval.Mark(dir, decision)
}
