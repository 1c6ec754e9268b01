package config

import (
	"fmt"
	"os"
	"sort"

	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	goyaml "gopkg.in/yaml.v3"
)

// AgentKind identifies a supported agent integration.
type AgentKind string

const (
	// AgentClaudeCode is the Claude Code integration.
	AgentClaudeCode AgentKind = "claude_code"
	// AgentCursor is the Cursor editor integration.
	AgentCursor AgentKind = "cursor"
)

// KnownAgentKinds returns the supported agent kinds in display order.
func KnownAgentKinds() []AgentKind {
	return []AgentKind{AgentClaudeCode, AgentCursor}
}

// AgentConfig holds the enablement state and extra settings for one agent.
type AgentConfig struct {
	Enabled          bool              `koanf:"enabled" yaml:"enabled"`
	AdditionalConfig map[string]string `koanf:"additional_config" yaml:"additional_config,omitempty"`
}

// ProjectTypeConfig holds the instruction and standards text applied to
// projects of one type.
type ProjectTypeConfig struct {
	Instructions string `koanf:"instructions" yaml:"instructions"`
	Standards    string `koanf:"standards" yaml:"standards"`
}

// Config is the validated base configuration document (config.yml).
// It is never mutated in-process; the installer scripts own the file.
type Config struct {
	AgentOSVersion     string                       `koanf:"agent_os_version" yaml:"agent_os_version"`
	Agents             map[AgentKind]AgentConfig    `koanf:"agents" yaml:"agents"`
	ProjectTypes       map[string]ProjectTypeConfig `koanf:"project_types" yaml:"project_types"`
	DefaultProjectType string                       `koanf:"default_project_type" yaml:"default_project_type"`
}

// Validate checks the document against the schema. The cross-field
// constraint is that default_project_type must name an entry in
// project_types.
func (c *Config) Validate() error {
	if c.AgentOSVersion == "" {
		return fmt.Errorf("agent_os_version is required")
	}

	known := make(map[AgentKind]struct{}, len(KnownAgentKinds()))
	for _, kind := range KnownAgentKinds() {
		known[kind] = struct{}{}
	}
	for kind := range c.Agents {
		if _, ok := known[kind]; !ok {
			return fmt.Errorf("unknown agent %q", kind)
		}
	}

	if _, ok := c.ProjectTypes[c.DefaultProjectType]; !ok {
		return fmt.Errorf(
			"default project type %q not found in project_types", c.DefaultProjectType)
	}

	return nil
}

// ProjectTypeNames returns the configured project-type names, sorted.
func (c *Config) ProjectTypeNames() []string {
	names := make([]string, 0, len(c.ProjectTypes))
	for name := range c.ProjectTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads and validates the configuration document at path.
//
// Every failure wraps one of the package sentinels: ErrConfigNotFound,
// ErrConfigRead, ErrConfigSyntax, ErrConfigShape, or ErrConfigSchema. All
// are terminal for the call; nothing is retried.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(
				"%w at %s. Run 'agentos install' to set up the base installation",
				ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: failed to stat %s: %v", ErrConfigRead, path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrConfigRead, path, err)
	}

	// Probe the top-level shape before schema decoding so a scalar or list
	// document reports as a format error, not a schema error.
	var raw any
	if err := goyaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrConfigSyntax, path, err)
	}
	if _, ok := raw.(map[string]any); !ok {
		return nil, fmt.Errorf("%w in %s: expected a YAML mapping", ErrConfigShape, path)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), koanfyaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrConfigSyntax, path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrConfigSchema, path, err)
	}

	if cfg.DefaultProjectType == "" {
		cfg.DefaultProjectType = "default"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrConfigSchema, path, err)
	}

	return &cfg, nil
}
