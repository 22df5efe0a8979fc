package cmd

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/spigell/cv-tailor/internal/ai"
)

type Config struct {
	JobsDir      string         `mapstructure:"jobs-dir" json:"jobs-dir" validate:"required"`
	ProjectsFile string         `mapstructure:"projects-file" json:"projects-file" validate:"required"`
	ProfileDir   string         `mapstructure:"profile-dir" json:"profile-dir"`
	Template     string         `mapstructure:"template" json:"template" validate:"required"`
	OutputDir    string         `mapstructure:"output-dir" json:"output-dir" validate:"required"`
	LogFile      string         `mapstructure:"log-file" json:"log-file"`
	Concurrency  int            `mapstructure:"concurrency" json:"concurrency" validate:"gte=0"`
	RetryFailed  bool           `mapstructure:"retry-failed" json:"retry-failed"`
	Approval     ApprovalConfig `mapstructure:"approval" json:"approval"`
	CV           CVConfig       `mapstructure:"cv" json:"cv"`
	AI           AIConfig       `mapstructure:"ai" json:"ai"`
	Convert      ConvertConfig  `mapstructure:"convert" json:"convert"`
}

type ApprovalConfig struct {
	Mode string `mapstructure:"mode" json:"mode" validate:"oneof=interactive marker auto"`
}

type CVConfig struct {
	ProjectSlots    int      `mapstructure:"project-slots" json:"project-slots" validate:"gte=1"`
	SkillCategories []string `mapstructure:"skill-categories" json:"skill-categories" validate:"min=1,unique,dive,required"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider" json:"provider" validate:"oneof=gemini"`
	Gemini   GeminiConfig `mapstructure:"gemini" json:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string  `mapstructure:"api-key-file" json:"api-key-file"`
	APIKey       string  `mapstructure:"api-key" json:"-"`
	Model        string  `mapstructure:"model" json:"model" validate:"required"`
	Temperature  float32 `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	MaxLogLength int     `mapstructure:"max-log-length" json:"max-log-length" validate:"gte=0"`
}

type ConvertConfig struct {
	Enabled    bool          `mapstructure:"enabled" json:"enabled"`
	ChromePath string        `mapstructure:"chrome-path" json:"chrome-path"`
	Timeout    time.Duration `mapstructure:"timeout" json:"timeout" validate:"gte=0"`
	Paper      string        `mapstructure:"paper" json:"paper" validate:"oneof=a4 letter"`
}

func setDefaults() {
	viper.SetDefault("jobs-dir", "inputs/job_descriptions")
	viper.SetDefault("projects-file", "inputs/user_details/projects.json")
	viper.SetDefault("profile-dir", "inputs/user_details")
	viper.SetDefault("template", "inputs/cv_template/cv_template.html")
	viper.SetDefault("output-dir", "outputs")
	viper.SetDefault("log-file", "logs/batch_run.log")
	viper.SetDefault("concurrency", 1)
	viper.SetDefault("retry-failed", false)

	viper.SetDefault("approval.mode", "marker")

	viper.SetDefault("cv.project-slots", ai.DefaultProjectSlots)
	viper.SetDefault("cv.skill-categories", ai.DefaultSkillCategories)

	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-pro")
	viper.SetDefault("ai.gemini.temperature", 0.8)
	viper.SetDefault("ai.gemini.max-log-length", 200)

	viper.SetDefault("convert.enabled", true)
	viper.SetDefault("convert.timeout", "60s")
	viper.SetDefault("convert.paper", "a4")
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config == nil {
		return nil, fmt.Errorf("config is empty")
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Schema is the output schema requested from the model.
func (c *Config) Schema() ai.Schema {
	return ai.Schema{
		ProjectSlots:    c.CV.ProjectSlots,
		SkillCategories: c.CV.SkillCategories,
	}
}
