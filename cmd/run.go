package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/cv-tailor/internal/ai"
	"github.com/spigell/cv-tailor/internal/ai/gemini"
	"github.com/spigell/cv-tailor/internal/approval"
	"github.com/spigell/cv-tailor/internal/batch"
	"github.com/spigell/cv-tailor/internal/convert"
	"github.com/spigell/cv-tailor/internal/cv"
	"github.com/spigell/cv-tailor/internal/jobs"
	"github.com/spigell/cv-tailor/internal/logger"
	"github.com/spigell/cv-tailor/internal/pipeline"
	"github.com/spigell/cv-tailor/internal/render"
	"github.com/spigell/cv-tailor/internal/secrets"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate drafts for new job listings and finish approved ones",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntP("concurrency", "c", 1, "how many jobs are processed at once, 0 means all")
	runCmd.Flags().BoolP("auto-approve", "y", false, "approve every draft without asking")
	runCmd.Flags().Bool("retry-failed", false, "process failed jobs again from the start")
	runCmd.Flags().String("jobs-dir", "", "directory with job listings")
	runCmd.Flags().String("output-dir", "", "directory for per-job outputs")

	viper.BindPFlag("concurrency", runCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("retry-failed", runCmd.Flags().Lookup("retry-failed"))
	viper.BindPFlag("jobs-dir", runCmd.Flags().Lookup("jobs-dir"))
	viper.BindPFlag("output-dir", runCmd.Flags().Lookup("output-dir"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := getConfig()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	if autoApprove, _ := cmd.Flags().GetBool("auto-approve"); autoApprove {
		config.Approval.Mode = "auto"
	}

	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		RunLog: config.LogFile,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	logger.Info("starting the cv-tailor", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	discovery, err := jobs.Discover(config.JobsDir)
	if err != nil {
		logger.Fatal("discovering job listings", zap.Error(err))
	}

	for _, path := range discovery.Skipped {
		logger.Warn("job listing skipped", zap.String("path", path), zap.String("reason", "another listing has the same name"))
	}

	if len(discovery.Jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no job listings found"), zap.String("jobs_dir", config.JobsDir))
		return
	}

	projects, err := cv.LoadProjects(config.ProjectsFile)
	if err != nil {
		logger.Fatal("loading project details", zap.Error(err))
	}

	p, err := newPipeline(ctx, config, projects, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err))
	}

	runner := &batch.Runner{
		Pipeline:    p,
		Concurrency: config.Concurrency,
		Logger:      logger,
	}

	report := runner.RunAll(ctx, discovery.Jobs)

	for _, res := range report.Results {
		fields := []zap.Field{
			zap.String("job_id", res.JobID),
			zap.String("status", string(res.Status())),
		}
		if res.FinalPath != "" {
			fields = append(fields, zap.String("final", res.FinalPath))
		} else if res.DraftPath != "" {
			fields = append(fields, zap.String("draft", res.DraftPath))
		}
		if res.Error != "" {
			fields = append(fields, zap.String("error", res.Error), zap.String("error_kind", string(res.ErrorKind)))
		}
		logger.Info("job result", fields...)
	}
}

func newPipeline(ctx context.Context, config *Config, projects cv.StaticTable, logger *zap.Logger) (*pipeline.Pipeline, error) {
	profile, err := gemini.LoadProfile(config.ProfileDir, projects)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(ctx, &config.AI, profile, logger)
	if err != nil {
		return nil, err
	}

	approver, err := newApprover(config.Approval.Mode, logger)
	if err != nil {
		return nil, err
	}

	deps := pipeline.Deps{
		Generator: generator,
		Renderer:  render.NewHTMLRenderer(config.CV.SkillCategories, config.CV.ProjectSlots, logger),
		Approver:  approver,
		Logger:    logger,
	}

	if config.Convert.Enabled {
		paper, err := convert.PaperByName(config.Convert.Paper)
		if err != nil {
			return nil, err
		}
		deps.Converter = convert.NewChromeConverter(config.Convert.ChromePath, config.Convert.Timeout, paper, logger)
	}

	return pipeline.New(pipeline.Config{
		OutputDir:    config.OutputDir,
		TemplatePath: config.Template,
		Schema:       config.Schema(),
		Projects:     projects,
		RetryFailed:  config.RetryFailed,
	}, deps)
}

func newGenerator(ctx context.Context, cfg *AIConfig, profile *gemini.Profile, logger *zap.Logger) (ai.Generator, error) {
	if cfg.Provider != "" && cfg.Provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GOOGLE_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model,
		gemini.WithProfile(profile),
		gemini.WithTemperature(cfg.Gemini.Temperature),
		gemini.WithMaxLogLength(cfg.Gemini.MaxLogLength),
		gemini.WithLogger(logger),
	)
}

func newApprover(mode string, logger *zap.Logger) (approval.Approver, error) {
	switch mode {
	case "auto":
		return approval.Auto{}, nil
	case "interactive":
		return approval.NewPromptApprover(logger), nil
	case "", "marker":
		return approval.NewMarkerApprover(logger), nil
	default:
		return nil, fmt.Errorf("unknown approval mode %q", mode)
	}
}
