package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeNewApplication = "newapp"
	ModeCase           = "case"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Default per-item agent fees in yuan, by mode
	DefaultAgentFeeNewApplication = 600
	DefaultAgentFeeCase           = 1000

	// Default template file names, looked up next to the working directory
	DefaultStatementTemplate = "请款单模板.docx"
	DefaultInvoiceTemplate   = "发票申请表.xlsx"

	// AgentFeeUnset marks the --agent-fee flag as untouched so the mode
	// default applies.
	AgentFeeUnset = -1

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for a billing batch run
type Config struct {
	// Batch configuration
	Mode      string // "newapp" or "case"
	InputDir  string
	OutputDir string

	// Template configuration
	StatementTemplate string
	InvoiceTemplate   string

	// Operator parameters
	AgentFee  int64             // uniform per-item agent fee; AgentFeeUnset selects the mode default
	AgentFees map[string]int64  // per-applicant overrides, from the params file
	Classes   map[string]string // "applicant/trademark" -> comma-separated classes

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:              ModeNewApplication,
		InputDir:          currentDir,
		OutputDir:         filepath.Join(currentDir, "output"),
		StatementTemplate: DefaultStatementTemplate,
		InvoiceTemplate:   DefaultInvoiceTemplate,
		AgentFee:          AgentFeeUnset,
		AgentFees:         map[string]int64{},
		Classes:           map[string]string{},
		Version:           "1.0.0",
		LogLevel:          DefaultLogLevel,
		MaxFileSize:       DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	for _, dir := range []*string{&cfg.InputDir, &cfg.OutputDir} {
		if *dir != "" {
			if expandedPath, err := filepath.Abs(*dir); err == nil {
				*dir = expandedPath
			}
		}
	}

	if paramsPath := viper.GetString("params"); paramsPath != "" {
		if err := cfg.loadParamsFile(paramsPath); err != nil {
			return nil, fmt.Errorf("invalid params file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("TMBILLING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.InputDir)
	viper.SetDefault("out", cfg.OutputDir)
	viper.SetDefault("statement-template", cfg.StatementTemplate)
	viper.SetDefault("invoice-template", cfg.InvoiceTemplate)
	viper.SetDefault("agent-fee", cfg.AgentFee)
	viper.SetDefault("params", "")
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Batch mode: 'newapp' for new-application filings, 'case' for case filings")
	pflag.String("dir", cfg.InputDir, "Directory containing the batch's PDF files")
	pflag.String("out", cfg.OutputDir, "Directory for generated documents")
	pflag.String("statement-template", cfg.StatementTemplate, "Path to the billing statement DOCX template")
	pflag.String("invoice-template", cfg.InvoiceTemplate, "Path to the invoice application XLSX template")
	pflag.Int64("agent-fee", cfg.AgentFee, "Per-item agent fee in yuan (-1 uses the mode default: 600 newapp, 1000 case)")
	pflag.String("params", "", "YAML file with per-applicant agent_fees and manual class resolutions")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "dir", "out", "statement-template", "invoice-template",
		"agent-fee", "params", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n商标案件请款 - extracts billing facts from trademark filing PDFs and renders billing documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=./pdfs --out=./output                  # new-application batch\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=case --dir=./pdfs --agent-fee=800     # case batch, uniform agent fee\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=./pdfs --params=params.yaml            # per-applicant fees and class fixes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  TMBILLING_MODE        Batch mode\n")
		fmt.Fprintf(os.Stderr, "  TMBILLING_DIR         Input PDF directory\n")
		fmt.Fprintf(os.Stderr, "  TMBILLING_OUT         Output directory\n")
		fmt.Fprintf(os.Stderr, "  TMBILLING_AGENT_FEE   Per-item agent fee\n")
		fmt.Fprintf(os.Stderr, "  TMBILLING_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputDir = viper.GetString("dir")
	cfg.OutputDir = viper.GetString("out")
	cfg.StatementTemplate = viper.GetString("statement-template")
	cfg.InvoiceTemplate = viper.GetString("invoice-template")
	cfg.AgentFee = viper.GetInt64("agent-fee")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// loadParamsFile reads the operator parameter file:
//
//	agent_fees:
//	  "某某科技有限公司": 800
//	classes:
//	  "某某科技有限公司/某商标": "9,35,42"
func (c *Config) loadParamsFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for applicant, raw := range v.GetStringMap("agent_fees") {
		fee, err := cast.ToInt64E(raw)
		if err != nil {
			return fmt.Errorf("agent fee for %q is not an integer: %v", applicant, raw)
		}
		c.AgentFees[applicant] = fee
	}
	for key, classes := range v.GetStringMapString("classes") {
		c.Classes[key] = classes
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeNewApplication && c.Mode != ModeCase {
		return errors.New("mode must be either 'newapp' or 'case'")
	}

	if c.InputDir == "" {
		return errors.New("input directory cannot be empty")
	}
	if _, err := os.Stat(c.InputDir); err != nil {
		return fmt.Errorf("cannot access input directory %s: %w", c.InputDir, err)
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.AgentFee < 0 && c.AgentFee != AgentFeeUnset {
		return errors.New("agent fee must be non-negative")
	}
	for applicant, fee := range c.AgentFees {
		if fee < 0 {
			return fmt.Errorf("agent fee for %q must be non-negative", applicant)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// DefaultAgentFee returns the mode-dependent default per-item agent fee.
func (c *Config) DefaultAgentFee() int64 {
	if c.Mode == ModeCase {
		return DefaultAgentFeeCase
	}
	return DefaultAgentFeeNewApplication
}

// AgentFeeFor resolves the agent fee for one applicant: per-applicant
// override first, then the uniform flag value, then the mode default.
func (c *Config) AgentFeeFor(applicant string) int64 {
	if fee, ok := c.AgentFees[applicant]; ok {
		return fee
	}
	if c.AgentFee != AgentFeeUnset {
		return c.AgentFee
	}
	return c.DefaultAgentFee()
}

// IsCaseMode returns true when the batch processes case-type filings.
func (c *Config) IsCaseMode() bool {
	return c.Mode == ModeCase
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputDir: %s, OutputDir: %s, AgentFee: %d, MaxFileSize: %d}",
		c.Mode, c.InputDir, c.OutputDir, c.AgentFee, c.MaxFileSize)
}
