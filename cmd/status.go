package cmd

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the checkpointed state of every job",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		discovery, err := jobs.Discover(config.JobsDir)
		if err != nil {
			log.Fatalf("discovering job listings: %s", err)
		}

		printStatus(cmd.OutOrStdout(), config.OutputDir, discovery.Jobs)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printStatus(w io.Writer, outputDir string, descriptors []jobs.Descriptor) {
	for _, job := range descriptors {
		st, found, err := pipeline.LoadState(filepath.Join(outputDir, job.ID, pipeline.StateFile))
		switch {
		case err != nil:
			fmt.Fprintf(w, "%-32s %-10s %s\n", job.ID, "UNKNOWN", err)
		case !found:
			fmt.Fprintf(w, "%-32s %-10s\n", job.ID, "NEW")
		default:
			detail := st.DraftPath
			if st.FinalPath != "" {
				detail = st.FinalPath
			}
			if st.Status == pipeline.StatusFailed {
				detail = fmt.Sprintf("%s: %s", st.ErrorKind, st.Error)
			}
			fmt.Fprintf(w, "%-32s %-10s %s\n", job.ID, st.Status, detail)
		}
	}
}
