package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/buildermethods/agentos/internal/config"
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("51"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	statusMissingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	statusLabelStyle = lipgloss.NewStyle().
				Width(14)
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"status"},
	Short:   "Show the CLI version and installation status",
	Long: `Show the CLI version and the AgentOS installation status for both
scopes: the base installation under your home directory and the project
installation in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func runVersion(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	st := a.store.Status()

	cmd.Println(statusTitleStyle.Render("AgentOS " + version))
	cmd.Println()

	cmd.Println(statusTitleStyle.Render("Base installation"))
	if st.BaseInstalled {
		printStatusLine(cmd, "Installed", statusOKStyle.Render("yes"))
		printStatusLine(cmd, "Path", st.BasePath)
		printStatusLine(cmd, "Version", st.BaseVersion)
	} else {
		printStatusLine(cmd, "Installed", statusMissingStyle.Render("no"))
		printStatusLine(cmd, "Expected at", a.settings.BaseDir)
	}
	cmd.Println()

	cmd.Println(statusTitleStyle.Render("Project installation"))
	if st.ProjectInstalled {
		printStatusLine(cmd, "Installed", statusOKStyle.Render("yes"))
		printStatusLine(cmd, "Path", st.ProjectPath)
		printStatusLine(cmd, "Agents", formatAgents(st.ProjectAgents))
		printStatusLine(cmd, "Project type", st.ProjectType)
	} else {
		printStatusLine(cmd, "Installed", statusMissingStyle.Render("no"))
		printStatusLine(cmd, "Detected type", a.store.DetectProjectType())
	}

	return nil
}

func printStatusLine(cmd *cobra.Command, label, value string) {
	cmd.Println(fmt.Sprintf("  %s %s", statusLabelStyle.Render(label), value))
}

func formatAgents(agents []config.AgentKind) string {
	if len(agents) == 0 {
		return statusMissingStyle.Render("none")
	}
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}
