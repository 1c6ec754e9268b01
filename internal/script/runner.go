package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/buildermethods/agentos/internal/sanitize"
)

// DefaultProjectType is never passed to a script; its absence tells the
// script to use its built-in default.
const DefaultProjectType = "default"

// Installer script names.
const (
	BaseScriptName    = "base.sh"
	ProjectScriptName = "project.sh"
)

// Options carries the flags forwarded to an installer script.
type Options struct {
	ClaudeCode            bool
	Cursor                bool
	ProjectType           string
	OverwriteInstructions bool
	OverwriteStandards    bool
	OverwriteConfig       bool
}

// Runner locates and executes the base and project installer scripts.
//
// The two scripts take the same boolean flags but spell the project-type
// argument differently: base.sh takes "--project-type VALUE" as two argv
// tokens, project.sh takes "--project-type=VALUE" as one. The scripts evolve
// independently; do not unify the two shapes.
type Runner struct {
	locator  *Locator
	executor *Executor
	log      *zap.Logger
}

// NewRunner creates a runner from a locator and executor.
func NewRunner(locator *Locator, executor *Executor, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{locator: locator, executor: executor, log: log}
}

// RunBaseInstall validates opts and executes base.sh.
func (r *Runner) RunBaseInstall(ctx context.Context, opts Options) error {
	if err := sanitize.ProjectType(opts.ProjectType); err != nil {
		return err
	}

	path := r.locator.Locate(BaseScriptName)
	if path == "" {
		return fmt.Errorf(
			"%w: base installation script %q not found; ensure AgentOS is properly installed or available",
			ErrScriptNotFound, BaseScriptName)
	}

	args := append([]string{path}, booleanFlags(opts)...)
	if opts.ProjectType != DefaultProjectType {
		args = append(args, "--project-type", opts.ProjectType)
	}

	return r.executor.Execute(ctx, args,
		"Installing AgentOS base components",
		"Base installation completed successfully")
}

// RunProjectInstall validates opts and executes project.sh.
func (r *Runner) RunProjectInstall(ctx context.Context, opts Options) error {
	if err := sanitize.ProjectType(opts.ProjectType); err != nil {
		return err
	}

	path := r.locator.Locate(ProjectScriptName)
	if path == "" {
		return fmt.Errorf(
			"%w: project installation script %q not found; ensure the AgentOS base installation is complete",
			ErrScriptNotFound, ProjectScriptName)
	}

	args := append([]string{path}, booleanFlags(opts)...)
	if opts.ProjectType != DefaultProjectType {
		args = append(args, "--project-type="+opts.ProjectType)
	}

	return r.executor.Execute(ctx, args,
		"Installing AgentOS project components",
		"Project installation completed successfully")
}

// booleanFlags renders the shared boolean flags, each included only when set.
func booleanFlags(opts Options) []string {
	var flags []string
	if opts.ClaudeCode {
		flags = append(flags, "--claude-code")
	}
	if opts.Cursor {
		flags = append(flags, "--cursor")
	}
	if opts.OverwriteInstructions {
		flags = append(flags, "--overwrite-instructions")
	}
	if opts.OverwriteStandards {
		flags = append(flags, "--overwrite-standards")
	}
	if opts.OverwriteConfig {
		flags = append(flags, "--overwrite-config")
	}
	return flags
}
