package main

import (
	"github.com/spf13/cobra"

	"github.com/buildermethods/agentos/internal/installer"
)

var (
	installProject  bool
	installNoBase   bool
	installClaude   bool
	installCursor   bool
	installType     string
	overwriteInstr  bool
	overwriteStds   bool
	overwriteConfig bool
)

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().BoolVar(&installProject, "project", false,
		"Install project components into the current directory")
	installCmd.Flags().BoolVar(&installNoBase, "no-base", false,
		"Skip the base-installation requirement for project installs")
	installCmd.Flags().BoolVar(&installClaude, "claude-code", false,
		"Enable the Claude Code integration")
	installCmd.Flags().BoolVar(&installCursor, "cursor", false,
		"Enable the Cursor integration")
	installCmd.Flags().StringVar(&installType, "project-type", "",
		"Project type passed to the installer script (detected when empty)")
	installCmd.Flags().BoolVar(&overwriteInstr, "overwrite-instructions", false,
		"Overwrite existing instruction files")
	installCmd.Flags().BoolVar(&overwriteStds, "overwrite-standards", false,
		"Overwrite existing standards files")
	installCmd.Flags().BoolVar(&overwriteConfig, "overwrite-config", false,
		"Overwrite the existing configuration without prompting")
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install AgentOS base or project components",
	Long: `Install AgentOS components.

Without flags this installs the base components under ~/.agent-os.
With --project it installs project components into ./.agent-os, which
requires a base installation unless --no-base is given.

Examples:
  # Install the base components
  agentos install

  # Install project components with the Claude Code integration
  agentos install --project --claude-code

  # Reinstall over an existing base without prompting
  agentos install --overwrite-config`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	scope := installer.ScopeBase
	projectType := installType
	if installProject {
		scope = installer.ScopeProject
		if projectType == "" {
			projectType = a.store.DetectProjectType()
		}
	}

	return a.installer.Install(cmd.Context(), installer.Options{
		Scope:                 scope,
		ClaudeCode:            installClaude,
		Cursor:                installCursor,
		ProjectType:           projectType,
		OverwriteInstructions: overwriteInstr,
		OverwriteStandards:    overwriteStds,
		OverwriteConfig:       overwriteConfig,
		NoBase:                installNoBase,
	})
}
