package main

import (
	"github.com/spf13/cobra"
)

var updateProject bool

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&updateProject, "project", false,
		"Update only the project installation in the current directory")
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update existing AgentOS installations",
	Long: `Update whatever AgentOS installations exist.

A base update first checks the latest released version and skips the
update when you are already current; a project update reapplies the
project components with the currently installed integrations.

Examples:
  # Update base and project installations
  agentos update

  # Update only the project installation
  agentos update --project`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	return a.installer.Update(cmd.Context(), updateProject)
}
