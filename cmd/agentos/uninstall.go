package main

import (
	"github.com/spf13/cobra"
)

var uninstallProject bool

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().BoolVar(&uninstallProject, "project", false,
		"Remove only the project installation in the current directory")
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove AgentOS installations",
	Long: `Remove AgentOS installations.

The project installation is removed before the base installation, and
each removal is confirmed separately. Use --yes to skip the prompts.

Examples:
  # Remove project and base installations
  agentos uninstall

  # Remove only the project installation, without prompting
  agentos uninstall --project --yes`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return a.installer.Uninstall(uninstallProject)
}
