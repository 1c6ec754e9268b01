package config

import (
	"os"

	"go.uber.org/zap"

	"github.com/buildermethods/agentos/internal/detect"
)

// InstallStatus describes what is currently installed. It is derived, never
// persisted.
type InstallStatus struct {
	BaseInstalled bool
	BasePath      string
	BaseVersion   string

	ProjectInstalled bool
	ProjectPath      string
	ProjectAgents    []AgentKind
	ProjectType      string
}

// HasAgent reports whether the project installation has the given agent
// marker.
func (st *InstallStatus) HasAgent(kind AgentKind) bool {
	for _, a := range st.ProjectAgents {
		if a == kind {
			return true
		}
	}
	return false
}

// Store loads and caches the base configuration document and the derived
// installation status. Both caches live and die together: a successful
// install, update, or uninstall must call ClearCache so the next read
// re-derives state from disk.
//
// Store is not safe for concurrent use; the CLI runs one command per
// process.
type Store struct {
	settings Settings
	detector *detect.Detector
	log      *zap.Logger

	config *Config
	status *InstallStatus
}

// NewStore creates a store over the given settings.
func NewStore(settings Settings, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		settings: settings,
		detector: detect.New(settings.Detection),
		log:      log,
	}
}

// Load returns the base configuration document, reading it from disk on the
// first call and serving the cached instance afterwards. Errors wrap the
// package's configuration sentinels.
func (s *Store) Load() (*Config, error) {
	if s.config != nil {
		return s.config, nil
	}

	cfg, err := Load(s.settings.BaseConfigPath())
	if err != nil {
		return nil, err
	}

	s.config = cfg
	return cfg, nil
}

// Status derives the current installation status. It never fails: a base
// scope-root whose config does not load is reported as not installed rather
// than surfacing the configuration error. That downgrade applies only here;
// Load still reports its errors to direct callers.
func (s *Store) Status() *InstallStatus {
	if s.status != nil {
		return s.status
	}

	st := &InstallStatus{}

	baseDir := s.settings.BaseDir
	if dirExists(baseDir) && fileExists(s.settings.BaseConfigPath()) {
		cfg, err := s.Load()
		if err != nil {
			s.log.Warn("base scope-root present but config invalid, treating as not installed",
				zap.String("path", s.settings.BaseConfigPath()),
				zap.Error(err))
		} else {
			st.BaseInstalled = true
			st.BasePath = baseDir
			st.BaseVersion = cfg.AgentOSVersion
		}
	}

	projectDir := s.settings.ProjectDir()
	if dirExists(projectDir) {
		st.ProjectInstalled = true
		st.ProjectPath = projectDir
		st.ProjectAgents = s.detectProjectAgents()
		st.ProjectType = s.detector.Detect(s.settings.WorkDir)
	}

	s.status = st
	return st
}

// DetectProjectType classifies the working directory, independent of what is
// installed. Uncached: detection is a handful of stat calls.
func (s *Store) DetectProjectType() string {
	return s.detector.Detect(s.settings.WorkDir)
}

// ClearCache drops both caches. Idempotent; safe to call before any load.
func (s *Store) ClearCache() {
	s.config = nil
	s.status = nil
}

// detectProjectAgents checks marker files inside the project scope-root.
// Order is fixed: claude_code, then cursor.
func (s *Store) detectProjectAgents() []AgentKind {
	var agents []AgentKind

	if fileExists(s.settings.ClaudeMarkerPath()) {
		agents = append(agents, AgentClaudeCode)
	}

	// Cursor is signaled by the legacy single rules file or the rules
	// subdirectory.
	if fileExists(s.settings.CursorLegacyPath()) || dirExists(s.settings.CursorRulesPath()) {
		agents = append(agents, AgentCursor)
	}

	return agents
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
