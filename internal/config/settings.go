// Package config provides process-wide settings, the AgentOS configuration
// document, and the cached installation-status store.
//
// Settings are resolved once at startup and passed explicitly into each
// component's constructor; nothing in this package mutates them afterwards.
//
// # Environment Variable Overrides
//
// Settings can be overridden with AGENTOS_-prefixed environment variables:
//
//	AGENTOS_BASE_DIR        base scope-root (default ~/.agent-os)
//	AGENTOS_WORK_DIR        working directory (default current directory)
//	AGENTOS_SCRIPT_TIMEOUT  script timeout as a Go duration, 1s..1h (default 10m)
//	AGENTOS_LOG_LEVEL       zap level (default info)
//	AGENTOS_LOG_FORMAT      console or json (default console)
//	AGENTOS_GITHUB_OWNER    release-check repository owner
//	AGENTOS_GITHUB_REPO     release-check repository name
//	AGENTOS_GITHUB_TOKEN    optional GitHub API token (GITHUB_TOKEN also honored)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/buildermethods/agentos/internal/detect"
)

const (
	// DirName is the scope-root directory name for both scopes.
	DirName = ".agent-os"

	// ConfigFileName is the base configuration file name.
	ConfigFileName = "config.yml"

	// Marker files signaling agent integrations inside the project scope-root.
	ClaudeMarkerFile   = "CLAUDE.md"
	CursorLegacyFile   = ".cursorrules"
	CursorRulesDirName = ".cursor"
	CursorRulesSubdir  = "rules"

	// SharedSetupDir is the packaging-time shared-data script location.
	SharedSetupDir = "/usr/local/share/agent-os/setup"

	// DefaultScriptTimeout bounds installer script execution.
	DefaultScriptTimeout = 10 * time.Minute

	// Script timeout bounds.
	MinScriptTimeout = time.Second
	MaxScriptTimeout = time.Hour

	// Release-check repository defaults.
	DefaultGitHubOwner = "buildermethods"
	DefaultGitHubRepo  = "agent-os"
)

// Settings is the immutable process-wide configuration. Build it once with
// DefaultSettings and hand it to every constructor that needs it.
type Settings struct {
	// BaseDir is the base (system-wide) scope-root, normally ~/.agent-os.
	BaseDir string

	// WorkDir is the directory project operations act on, normally the CWD.
	WorkDir string

	// ScriptSearchDirs is the ordered script search path for the locator.
	ScriptSearchDirs []string

	// ScriptTimeout bounds a single installer script run.
	ScriptTimeout time.Duration

	// LogLevel and LogFormat configure the ambient logger.
	LogLevel  string
	LogFormat string

	// GitHubOwner and GitHubRepo identify the release-check repository.
	GitHubOwner string
	GitHubRepo  string

	// GitHubToken optionally authenticates the release check.
	GitHubToken Secret

	// Detection holds the project-type detection tables.
	Detection detect.Settings
}

// envOverrides is the koanf target for AGENTOS_* environment variables.
type envOverrides struct {
	BaseDir       string   `koanf:"base_dir"`
	WorkDir       string   `koanf:"work_dir"`
	ScriptTimeout Duration `koanf:"script_timeout"`
	LogLevel      string   `koanf:"log_level"`
	LogFormat     string   `koanf:"log_format"`
	GitHubOwner   string   `koanf:"github_owner"`
	GitHubRepo    string   `koanf:"github_repo"`
	GitHubToken   Secret   `koanf:"github_token"`
}

// DefaultSettings resolves settings from built-in defaults layered with
// AGENTOS_* environment variables.
func DefaultSettings() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	s := Settings{
		BaseDir:       filepath.Join(home, DirName),
		WorkDir:       cwd,
		ScriptTimeout: DefaultScriptTimeout,
		LogLevel:      "info",
		LogFormat:     "console",
		GitHubOwner:   DefaultGitHubOwner,
		GitHubRepo:    DefaultGitHubRepo,
		Detection:     detect.DefaultSettings(),
	}

	if err := applyEnvOverrides(&s); err != nil {
		return Settings{}, err
	}

	if s.ScriptTimeout < MinScriptTimeout || s.ScriptTimeout > MaxScriptTimeout {
		return Settings{}, fmt.Errorf(
			"script timeout %s out of range (%s..%s)",
			s.ScriptTimeout, MinScriptTimeout, MaxScriptTimeout)
	}

	s.ScriptSearchDirs = defaultScriptSearchDirs(s.BaseDir, s.WorkDir)
	return s, nil
}

// applyEnvOverrides layers AGENTOS_* environment variables over defaults.
// Environment variables map to flat lowercase keys:
//
//	AGENTOS_SCRIPT_TIMEOUT -> script_timeout
//	AGENTOS_BASE_DIR       -> base_dir
func applyEnvOverrides(s *Settings) error {
	k := koanf.New(".")

	if err := k.Load(env.Provider("AGENTOS_", ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, "AGENTOS_"))
	}), nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}

	var o envOverrides
	if err := k.Unmarshal("", &o); err != nil {
		return fmt.Errorf("failed to unmarshal environment overrides: %w", err)
	}

	if o.BaseDir != "" {
		s.BaseDir = o.BaseDir
	}
	if o.WorkDir != "" {
		s.WorkDir = o.WorkDir
	}
	if o.ScriptTimeout != 0 {
		s.ScriptTimeout = o.ScriptTimeout.Duration()
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		s.LogFormat = o.LogFormat
	}
	if o.GitHubOwner != "" {
		s.GitHubOwner = o.GitHubOwner
	}
	if o.GitHubRepo != "" {
		s.GitHubRepo = o.GitHubRepo
	}
	if o.GitHubToken.IsSet() {
		s.GitHubToken = o.GitHubToken
	} else if t := os.Getenv("GITHUB_TOKEN"); t != "" {
		s.GitHubToken = Secret(t)
	}

	return nil
}

// defaultScriptSearchDirs builds the prioritized script search path:
// development tree, shared data dir, installation-root scripts/setup dirs,
// working-directory setup dir, then fixed system directories.
func defaultScriptSearchDirs(baseDir, workDir string) []string {
	dirs := make([]string, 0, 8)

	// Development: setup/ next to the executable.
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "setup"))
	}

	dirs = append(dirs,
		SharedSetupDir,
		filepath.Join(baseDir, "scripts"),
		filepath.Join(baseDir, "setup"),
		filepath.Join(workDir, "setup"),
		"/usr/local/bin",
		"/usr/bin",
	)

	return dirs
}

// ProjectDir returns the project scope-root under the work dir.
func (s Settings) ProjectDir() string {
	return filepath.Join(s.WorkDir, DirName)
}

// BaseConfigPath returns the base configuration file path.
func (s Settings) BaseConfigPath() string {
	return filepath.Join(s.BaseDir, ConfigFileName)
}

// ClaudeMarkerPath returns the Claude Code marker file path in the project
// scope-root.
func (s Settings) ClaudeMarkerPath() string {
	return filepath.Join(s.ProjectDir(), ClaudeMarkerFile)
}

// CursorLegacyPath returns the legacy single-file Cursor marker path.
func (s Settings) CursorLegacyPath() string {
	return filepath.Join(s.ProjectDir(), CursorLegacyFile)
}

// CursorRulesPath returns the Cursor rules directory marker path.
func (s Settings) CursorRulesPath() string {
	return filepath.Join(s.ProjectDir(), CursorRulesDirName, CursorRulesSubdir)
}
