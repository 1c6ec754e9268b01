// Package script finds and runs the external AgentOS installer scripts.
//
// Scripts are discovered across a prioritized search path and executed as
// direct subprocesses (never through a shell) with a minimal replacement
// environment and a hard timeout. The project-type argument is validated
// against the safe-token grammar before any argv is built.
package script

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Locator finds installer scripts across an ordered list of directories.
type Locator struct {
	dirs []string
	log  *zap.Logger
}

// NewLocator creates a locator over the given search directories, highest
// priority first.
func NewLocator(dirs []string, log *zap.Logger) *Locator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locator{dirs: dirs, log: log}
}

// Locate returns the path of the first existing, regular, executable file
// named name in the search path, or "" when none is found.
//
// A candidate that exists but lacks the executable bit is skipped with a
// warning and the search continues. That permissive fallback is deliberate:
// a stray non-executable copy earlier in the path must not shadow a working
// install later in it.
func (l *Locator) Locate(name string) string {
	for _, dir := range l.dirs {
		candidate := filepath.Join(dir, name)

		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		if info.Mode().Perm()&0o111 == 0 {
			l.log.Warn("script found but not executable, continuing search",
				zap.String("path", candidate))
			continue
		}

		return candidate
	}

	return ""
}
