// Package installer orchestrates AgentOS install, update, and uninstall
// operations across the base and project scopes.
//
// The installer is a thin state machine over two collaborators: the config
// store (what is installed) and the script runner (how state changes). The
// external scripts own their own atomicity; the installer never rolls back a
// partially-applied script and instead re-derives status from disk after
// invalidating its caches.
package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/buildermethods/agentos/internal/config"
	"github.com/buildermethods/agentos/internal/script"
)

// Installation errors.
var (
	// ErrBaseRequired indicates a project install was attempted without a
	// base installation and without the --no-base waiver.
	ErrBaseRequired = errors.New("base installation required")

	// ErrNotInstalled indicates there was nothing to update.
	ErrNotInstalled = errors.New("no installation found")
)

// Scope selects the installation target.
type Scope string

const (
	// ScopeBase is the system-wide installation under the home directory.
	ScopeBase Scope = "base"
	// ScopeProject is the per-directory installation under the working
	// directory.
	ScopeProject Scope = "project"
)

// Options configures an install operation.
type Options struct {
	Scope       Scope
	ClaudeCode  bool
	Cursor      bool
	ProjectType string

	OverwriteInstructions bool
	OverwriteStandards    bool
	OverwriteConfig       bool

	// NoBase waives the base-installation requirement for project installs.
	NoBase bool
}

// ScriptRunner runs the external installer scripts.
type ScriptRunner interface {
	RunBaseInstall(ctx context.Context, opts script.Options) error
	RunProjectInstall(ctx context.Context, opts script.Options) error
}

// VersionSource reports the latest released AgentOS version.
type VersionSource interface {
	LatestVersion(ctx context.Context) (string, error)
}

// Installer coordinates config state and script execution.
type Installer struct {
	settings config.Settings
	store    *config.Store
	runner   ScriptRunner
	releases VersionSource
	confirm  Confirmer
	out      io.Writer
	log      *zap.Logger
}

// New creates an installer. out receives user-facing progress messages.
func New(
	settings config.Settings,
	store *config.Store,
	runner ScriptRunner,
	releases VersionSource,
	confirm Confirmer,
	out io.Writer,
	log *zap.Logger,
) *Installer {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Installer{
		settings: settings,
		store:    store,
		runner:   runner,
		releases: releases,
		confirm:  confirm,
		out:      out,
		log:      log,
	}
}

// Install installs the requested scope. A declined confirmation is a clean
// no-op, not an error. On completion (including the declined path) both
// caches are invalidated so the next status read reflects disk.
func (i *Installer) Install(ctx context.Context, opts Options) error {
	if opts.ProjectType == "" {
		opts.ProjectType = script.DefaultProjectType
	}

	var err error
	switch opts.Scope {
	case ScopeBase:
		err = i.installBase(ctx, opts)
	case ScopeProject:
		err = i.installProject(ctx, opts)
	default:
		err = fmt.Errorf("unknown installation scope %q", opts.Scope)
	}
	if err != nil {
		return err
	}

	i.store.ClearCache()
	return nil
}

// Update updates existing installations. projectOnly restricts the update to
// the project scope and requires it to be installed; otherwise whichever of
// the two scopes is installed is updated, independently.
func (i *Installer) Update(ctx context.Context, projectOnly bool) error {
	status := i.store.Status()

	if projectOnly {
		if !status.ProjectInstalled {
			return fmt.Errorf(
				"%w: no project installation found to update; run 'agentos install --project' to install project components first",
				ErrNotInstalled)
		}
		if err := i.updateProject(ctx, status); err != nil {
			return err
		}
	} else {
		if !status.BaseInstalled && !status.ProjectInstalled {
			return fmt.Errorf(
				"%w: no AgentOS installation found to update; run 'agentos install' to install AgentOS first",
				ErrNotInstalled)
		}
		if status.BaseInstalled {
			if err := i.updateBase(ctx, status); err != nil {
				return err
			}
		}
		if status.ProjectInstalled {
			if err := i.updateProject(ctx, status); err != nil {
				return err
			}
		}
	}

	i.store.ClearCache()
	return nil
}

// Uninstall removes installations. projectOnly removes only the project
// scope-root; otherwise project is removed before base, each independently
// confirmed. Missing installations report and no-op.
func (i *Installer) Uninstall(projectOnly bool) error {
	status := i.store.Status()

	if projectOnly {
		if !status.ProjectInstalled {
			fmt.Fprintln(i.out, "No project installation found to remove")
			return nil
		}
		if err := i.uninstallProject(status); err != nil {
			return err
		}
	} else {
		removed := false
		if status.ProjectInstalled {
			if err := i.uninstallProject(status); err != nil {
				return err
			}
			removed = true
		}
		if status.BaseInstalled {
			if err := i.uninstallBase(status); err != nil {
				return err
			}
			removed = true
		}
		if !removed {
			fmt.Fprintln(i.out, "No AgentOS installation found to remove")
			return nil
		}
	}

	i.store.ClearCache()
	return nil
}

func (i *Installer) installBase(ctx context.Context, opts Options) error {
	fmt.Fprintln(i.out, "Installing AgentOS base components...")

	status := i.store.Status()
	if status.BaseInstalled && !opts.OverwriteConfig {
		fmt.Fprintln(i.out, "Base installation already exists")
		if !i.confirm.Confirm("Proceed with reinstall?") {
			return nil
		}
	}

	if err := i.runner.RunBaseInstall(ctx, scriptOptions(opts)); err != nil {
		return fmt.Errorf("base installation failed: %w", err)
	}
	return nil
}

func (i *Installer) installProject(ctx context.Context, opts Options) error {
	fmt.Fprintln(i.out, "Installing AgentOS project components...")

	status := i.store.Status()
	if !status.BaseInstalled && !opts.NoBase {
		return fmt.Errorf(
			"%w: run 'agentos install' first, or use --no-base to skip this requirement",
			ErrBaseRequired)
	}

	if status.ProjectInstalled && !opts.OverwriteConfig {
		fmt.Fprintln(i.out, "Project installation already exists")
		if !i.confirm.Confirm("Proceed with reinstall?") {
			return nil
		}
	}

	if err := i.runner.RunProjectInstall(ctx, scriptOptions(opts)); err != nil {
		return fmt.Errorf("project installation failed: %w", err)
	}
	return nil
}

// updateBase re-runs the base install script with every overwrite flag set.
// The remote version check is best effort: a check failure downgrades to a
// warning, an identical version short-circuits the update entirely.
func (i *Installer) updateBase(ctx context.Context, status *config.InstallStatus) error {
	fmt.Fprintln(i.out, "Updating base AgentOS installation...")

	current := status.BaseVersion
	if current == "" {
		current = "unknown"
	}

	latest, err := i.releases.LatestVersion(ctx)
	switch {
	case err != nil:
		i.log.Warn("could not check latest version, proceeding with update", zap.Error(err))
		fmt.Fprintln(i.out, "Could not check latest version, proceeding with update")
	case current == latest:
		fmt.Fprintf(i.out, "Base installation is already up to date (v%s)\n", current)
		return nil
	default:
		fmt.Fprintf(i.out, "Updating from v%s to v%s\n", current, latest)
	}

	err = i.runner.RunBaseInstall(ctx, script.Options{
		// Both integrations are re-enabled to preserve existing ones; the
		// script keeps whatever markers are already present.
		ClaudeCode:            true,
		Cursor:                true,
		ProjectType:           script.DefaultProjectType,
		OverwriteInstructions: true,
		OverwriteStandards:    true,
		OverwriteConfig:       true,
	})
	if err != nil {
		return fmt.Errorf("base update failed: %w", err)
	}
	return nil
}

// updateProject re-derives the flags from the currently installed agent set
// and project type, then reapplies them with every overwrite flag set: a
// project update is always a full overwrite of project-level files.
func (i *Installer) updateProject(ctx context.Context, status *config.InstallStatus) error {
	fmt.Fprintln(i.out, "Updating project AgentOS installation...")

	projectType := status.ProjectType
	if projectType == "" {
		projectType = script.DefaultProjectType
	}

	err := i.runner.RunProjectInstall(ctx, script.Options{
		ClaudeCode:            status.HasAgent(config.AgentClaudeCode),
		Cursor:                status.HasAgent(config.AgentCursor),
		ProjectType:           projectType,
		OverwriteInstructions: true,
		OverwriteStandards:    true,
		OverwriteConfig:       true,
	})
	if err != nil {
		return fmt.Errorf("project update failed: %w", err)
	}
	return nil
}

func (i *Installer) uninstallBase(status *config.InstallStatus) error {
	fmt.Fprintln(i.out, "Removing base AgentOS installation...")

	if status.BasePath == "" || !dirExists(status.BasePath) {
		fmt.Fprintln(i.out, "Base installation directory not found")
		return nil
	}

	if !i.confirm.Confirm(fmt.Sprintf("Remove base installation at %s?", status.BasePath)) {
		return nil
	}

	if err := os.RemoveAll(status.BasePath); err != nil {
		return fmt.Errorf("base uninstall failed: %w", err)
	}
	fmt.Fprintln(i.out, "Base installation removed successfully")
	return nil
}

func (i *Installer) uninstallProject(status *config.InstallStatus) error {
	fmt.Fprintln(i.out, "Removing project AgentOS installation...")

	if status.ProjectPath == "" || !dirExists(status.ProjectPath) {
		fmt.Fprintln(i.out, "Project installation directory not found")
		return nil
	}

	if !i.confirm.Confirm(fmt.Sprintf("Remove project installation at %s?", status.ProjectPath)) {
		return nil
	}

	if err := os.RemoveAll(status.ProjectPath); err != nil {
		return fmt.Errorf("project uninstall failed: %w", err)
	}
	fmt.Fprintln(i.out, "Project installation removed successfully")
	return nil
}

func scriptOptions(opts Options) script.Options {
	return script.Options{
		ClaudeCode:            opts.ClaudeCode,
		Cursor:                opts.Cursor,
		ProjectType:           opts.ProjectType,
		OverwriteInstructions: opts.OverwriteInstructions,
		OverwriteStandards:    opts.OverwriteStandards,
		OverwriteConfig:       opts.OverwriteConfig,
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
