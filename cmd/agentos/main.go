// Package main implements the agentos CLI for installing and maintaining
// AgentOS base and project components.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buildermethods/agentos/internal/config"
	"github.com/buildermethods/agentos/internal/installer"
	"github.com/buildermethods/agentos/internal/logging"
	"github.com/buildermethods/agentos/internal/script"
)

// version is stamped at build time with -ldflags.
var version = "dev"

// assumeYes answers every confirmation prompt with yes.
var assumeYes bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		os.Exit(130)
	}
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agentos",
	Short: "Install and maintain AgentOS components",
	Long: `agentos manages AgentOS installations in two scopes: a base
installation under your home directory (~/.agent-os) and per-project
installations under the current directory (.agent-os).

The actual file layout is applied by the packaged installer scripts;
this CLI locates them, validates their inputs, and runs them in a
minimal environment.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false,
		"Answer yes to all confirmation prompts")
}

// app bundles the wired components behind each command.
type app struct {
	settings  config.Settings
	log       *zap.Logger
	store     *config.Store
	installer *installer.Installer
}

func newApp() (*app, error) {
	settings, err := config.DefaultSettings()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(settings.LogLevel, settings.LogFormat)
	if err != nil {
		return nil, err
	}

	store := config.NewStore(settings, log)
	runner := script.NewRunner(
		script.NewLocator(settings.ScriptSearchDirs, log),
		script.NewExecutor(settings.ScriptTimeout, os.Stdout, log),
		log,
	)

	var confirm installer.Confirmer = &installer.TerminalConfirmer{In: os.Stdin, Out: os.Stdout}
	if assumeYes {
		confirm = installer.AutoConfirmer{Answer: true}
	}

	return &app{
		settings: settings,
		log:      log,
		store:    store,
		installer: installer.New(
			settings, store, runner, installer.NewChecker(settings), confirm, os.Stdout, log),
	}, nil
}

func (a *app) close() {
	_ = logging.Sync(a.log)
}
