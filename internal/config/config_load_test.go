package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("TMBILLING_MODE")
	os.Unsetenv("TMBILLING_DIR")
	os.Unsetenv("TMBILLING_OUT")
	os.Unsetenv("TMBILLING_AGENT_FEE")
	os.Unsetenv("TMBILLING_LOGLEVEL")
	os.Unsetenv("TMBILLING_MAXFILESIZE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"tmbilling", "--dir=" + tempDir, "--out=" + filepath.Join(tempDir, "output")})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeNewApplication {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeNewApplication)
	}
	if cfg.AgentFee != AgentFeeUnset {
		t.Errorf("LoadFromFlags() AgentFee = %v, want %v", cfg.AgentFee, AgentFeeUnset)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100*1024*1024)
	}
	if cfg.StatementTemplate != DefaultStatementTemplate {
		t.Errorf("LoadFromFlags() StatementTemplate = %v, want %v", cfg.StatementTemplate, DefaultStatementTemplate)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name            string
		argsTemplate    []string
		wantMode        string
		wantAgentFee    int64
		wantLogLevel    string
		wantMaxFileSize int64
	}{
		{
			name:            "newapp mode with custom directory",
			argsTemplate:    []string{"tmbilling", "--dir=%s", "--out=%s"},
			wantMode:        ModeNewApplication,
			wantAgentFee:    AgentFeeUnset,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "case mode",
			argsTemplate:    []string{"tmbilling", "--mode=case", "--dir=%s", "--out=%s"},
			wantMode:        ModeCase,
			wantAgentFee:    AgentFeeUnset,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "uniform agent fee",
			argsTemplate:    []string{"tmbilling", "--agent-fee=800", "--dir=%s", "--out=%s"},
			wantMode:        ModeNewApplication,
			wantAgentFee:    800,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "debug logging",
			argsTemplate:    []string{"tmbilling", "--loglevel=debug", "--dir=%s", "--out=%s"},
			wantMode:        ModeNewApplication,
			wantAgentFee:    AgentFeeUnset,
			wantLogLevel:    "debug",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "custom max file size",
			argsTemplate:    []string{"tmbilling", "--maxfilesize=50000000", "--dir=%s", "--out=%s"},
			wantMode:        ModeNewApplication,
			wantAgentFee:    AgentFeeUnset,
			wantLogLevel:    "info",
			wantMaxFileSize: 50000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			tempDir := t.TempDir()
			args := make([]string, len(tt.argsTemplate))
			for i, arg := range tt.argsTemplate {
				switch arg {
				case "--dir=%s":
					args[i] = "--dir=" + tempDir
				case "--out=%s":
					args[i] = "--out=" + filepath.Join(tempDir, "output")
				default:
					args[i] = arg
				}
			}

			setArgs(args)
			resetFlags()
			clearEnvVars()

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.AgentFee != tt.wantAgentFee {
				t.Errorf("LoadFromFlags() AgentFee = %v, want %v", cfg.AgentFee, tt.wantAgentFee)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			// Input directory should be expanded to an absolute path
			if !filepath.IsAbs(cfg.InputDir) {
				t.Errorf("LoadFromFlags() InputDir = %v, want absolute path", cfg.InputDir)
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()

	os.Setenv("TMBILLING_MODE", "case")
	os.Setenv("TMBILLING_DIR", tempDir)
	os.Setenv("TMBILLING_OUT", filepath.Join(tempDir, "output"))
	os.Setenv("TMBILLING_AGENT_FEE", "750")
	os.Setenv("TMBILLING_LOGLEVEL", "warn")
	os.Setenv("TMBILLING_MAXFILESIZE", "200000000")

	setArgs([]string{"tmbilling"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeCase {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeCase)
	}
	if cfg.AgentFee != 750 {
		t.Errorf("LoadFromFlags() AgentFee = %v, want %v", cfg.AgentFee, 750)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	os.Setenv("TMBILLING_MODE", "case")
	os.Setenv("TMBILLING_AGENT_FEE", "750")

	setArgs([]string{"tmbilling", "--mode=newapp", "--agent-fee=900",
		"--dir=" + tempDir, "--out=" + filepath.Join(tempDir, "output")})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeNewApplication {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, ModeNewApplication)
	}
	if cfg.AgentFee != 900 {
		t.Errorf("LoadFromFlags() AgentFee = %v, want %v (should override env)", cfg.AgentFee, 900)
	}
}

func TestLoadFromFlags_ParamsFile(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	paramsPath := filepath.Join(tempDir, "params.yaml")
	content := "agent_fees:\n  \"北京示例科技有限公司\": 800\nclasses:\n  \"北京示例科技有限公司/雷鸟\": \"9,35\"\n"
	if err := os.WriteFile(paramsPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write params file: %v", err)
	}

	setArgs([]string{"tmbilling", "--params=" + paramsPath,
		"--dir=" + tempDir, "--out=" + filepath.Join(tempDir, "output")})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if got := cfg.AgentFees["北京示例科技有限公司"]; got != 800 {
		t.Errorf("LoadFromFlags() AgentFees = %v, want 800", got)
	}
	if got := cfg.Classes["北京示例科技有限公司/雷鸟"]; got != "9,35" {
		t.Errorf("LoadFromFlags() Classes = %v, want '9,35'", got)
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"tmbilling", "--mode=invalid", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
	if err != nil && !strings.Contains(err.Error(), "mode must be either 'newapp' or 'case'") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid mode", err)
	}
}

func TestLoadFromFlags_InvalidLogLevel(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"tmbilling", "--loglevel=invalid", "--dir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid log level")
	}
	if err != nil && !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid log level", err)
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"tmbilling", "--version"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
