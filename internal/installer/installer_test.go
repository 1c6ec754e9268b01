package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/buildermethods/agentos/internal/config"
	"github.com/buildermethods/agentos/internal/detect"
	"github.com/buildermethods/agentos/internal/script"
)

type fakeRunner struct {
	baseCalls    []script.Options
	projectCalls []script.Options
	err          error
}

func (f *fakeRunner) RunBaseInstall(_ context.Context, opts script.Options) error {
	f.baseCalls = append(f.baseCalls, opts)
	return f.err
}

func (f *fakeRunner) RunProjectInstall(_ context.Context, opts script.Options) error {
	f.projectCalls = append(f.projectCalls, opts)
	return f.err
}

type fakeVersions struct {
	version string
	err     error
}

func (f *fakeVersions) LatestVersion(context.Context) (string, error) {
	return f.version, f.err
}

type recordingConfirmer struct {
	answer  bool
	prompts []string
}

func (c *recordingConfirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type fixture struct {
	installer *Installer
	settings  config.Settings
	store     *config.Store
	runner    *fakeRunner
	versions  *fakeVersions
	confirm   *recordingConfirmer
	out       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	settings := config.Settings{
		BaseDir:       filepath.Join(t.TempDir(), ".agent-os"),
		WorkDir:       t.TempDir(),
		ScriptTimeout: time.Minute,
		Detection:     detect.DefaultSettings(),
	}

	f := &fixture{
		settings: settings,
		store:    config.NewStore(settings, zap.NewNop()),
		runner:   &fakeRunner{},
		versions: &fakeVersions{version: "9.9.9"},
		confirm:  &recordingConfirmer{answer: true},
		out:      &bytes.Buffer{},
	}
	f.installer = New(settings, f.store, f.runner, f.versions, f.confirm, f.out, zap.NewNop())
	return f
}

// installBaseOnDisk writes a valid base installation with the given version.
func (f *fixture) installBaseOnDisk(t *testing.T, version string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.settings.BaseDir, 0o755))

	doc := fmt.Sprintf(`agent_os_version: %q
default_project_type: default
project_types:
  default:
    instructions: instructions/default
    standards: standards/default
`, version)
	require.NoError(t, os.WriteFile(f.settings.BaseConfigPath(), []byte(doc), 0o644))
}

// installProjectOnDisk creates the project scope-root with the given markers.
func (f *fixture) installProjectOnDisk(t *testing.T, claude, cursor bool) {
	t.Helper()
	require.NoError(t, os.MkdirAll(f.settings.ProjectDir(), 0o755))
	if claude {
		require.NoError(t, os.WriteFile(f.settings.ClaudeMarkerPath(), []byte("# rules\n"), 0o644))
	}
	if cursor {
		require.NoError(t, os.WriteFile(f.settings.CursorLegacyPath(), []byte("rules\n"), 0o644))
	}
}

func TestInstallBaseFresh(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Install(context.Background(), Options{
		Scope:       ScopeBase,
		ClaudeCode:  true,
		ProjectType: "python-modern",
	})
	require.NoError(t, err)

	require.Len(t, f.runner.baseCalls, 1)
	assert.True(t, f.runner.baseCalls[0].ClaudeCode)
	assert.False(t, f.runner.baseCalls[0].Cursor)
	assert.Equal(t, "python-modern", f.runner.baseCalls[0].ProjectType)
	assert.Empty(t, f.confirm.prompts, "fresh install must not prompt")
	assert.Contains(t, f.out.String(), "Installing AgentOS base components")
}

func TestInstallBaseExistingDeclined(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")

	f.confirm.answer = false
	err := f.installer.Install(context.Background(), Options{Scope: ScopeBase})
	require.NoError(t, err, "a declined confirmation is a clean no-op")

	assert.Empty(t, f.runner.baseCalls, "declined install must not run the script")
	assert.Contains(t, f.out.String(), "Base installation already exists")
}

func TestInstallInvalidatesCacheOnDeclinedPath(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")

	// Prime the cache, decline the reinstall, then change disk state.
	require.True(t, f.store.Status().BaseInstalled)
	f.confirm.answer = false
	require.NoError(t, f.installer.Install(context.Background(), Options{Scope: ScopeBase}))

	require.NoError(t, os.RemoveAll(f.settings.BaseDir))
	assert.False(t, f.store.Status().BaseInstalled,
		"status after an entry point must reflect disk, not the pre-call cache")
}

func TestInstallBaseOverwriteConfigSkipsPrompt(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")

	err := f.installer.Install(context.Background(), Options{
		Scope:           ScopeBase,
		OverwriteConfig: true,
	})
	require.NoError(t, err)

	assert.Empty(t, f.confirm.prompts)
	require.Len(t, f.runner.baseCalls, 1)
	assert.True(t, f.runner.baseCalls[0].OverwriteConfig)
}

func TestInstallProjectRequiresBase(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Install(context.Background(), Options{Scope: ScopeProject})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBaseRequired)
	assert.Contains(t, err.Error(), "--no-base")
	assert.Empty(t, f.runner.projectCalls, "precondition failure must not run the script")
}

func TestInstallProjectNoBaseWaiver(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Install(context.Background(), Options{
		Scope:  ScopeProject,
		Cursor: true,
		NoBase: true,
	})
	require.NoError(t, err)

	require.Len(t, f.runner.projectCalls, 1)
	assert.True(t, f.runner.projectCalls[0].Cursor)
}

func TestInstallEmptyProjectTypeDefaults(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Install(context.Background(), Options{Scope: ScopeBase})
	require.NoError(t, err)

	require.Len(t, f.runner.baseCalls, 1)
	assert.Equal(t, script.DefaultProjectType, f.runner.baseCalls[0].ProjectType)
}

func TestInstallUnknownScope(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Install(context.Background(), Options{Scope: "global"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global")
}

func TestInstallScriptFailureWrapped(t *testing.T) {
	f := newFixture(t)
	f.runner.err = errors.New("exit status 2")

	err := f.installer.Install(context.Background(), Options{Scope: ScopeBase})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base installation failed")
}

func TestUpdateNothingInstalled(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Update(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.Empty(t, f.runner.baseCalls)
	assert.Empty(t, f.runner.projectCalls)
}

func TestUpdateProjectOnlyRequiresProject(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")

	err := f.installer.Update(context.Background(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.Contains(t, err.Error(), "project installation")
	assert.Empty(t, f.runner.baseCalls, "project-only update must never touch base")
	assert.Empty(t, f.runner.projectCalls)
}

func TestUpdateBaseAlreadyUpToDate(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.versions.version = "1.4.3"

	err := f.installer.Update(context.Background(), false)
	require.NoError(t, err)

	assert.Empty(t, f.runner.baseCalls, "matching version must skip the update")
	assert.Contains(t, f.out.String(), "already up to date")
}

func TestUpdateBaseNewerVersion(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.versions.version = "2.0.0"

	err := f.installer.Update(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, f.runner.baseCalls, 1)
	got := f.runner.baseCalls[0]
	assert.True(t, got.ClaudeCode)
	assert.True(t, got.Cursor)
	assert.Equal(t, script.DefaultProjectType, got.ProjectType)
	assert.True(t, got.OverwriteInstructions)
	assert.True(t, got.OverwriteStandards)
	assert.True(t, got.OverwriteConfig)
	assert.Contains(t, f.out.String(), "Updating from v1.4.3 to v2.0.0")
}

func TestUpdateBaseVersionCheckFailureProceeds(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.versions.err = errors.New("api rate limited")

	err := f.installer.Update(context.Background(), false)
	require.NoError(t, err, "a failed version check must not block the update")

	assert.Len(t, f.runner.baseCalls, 1)
	assert.Contains(t, f.out.String(), "Could not check latest version")
}

func TestUpdateProjectDerivesFlagsFromStatus(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.installProjectOnDisk(t, true, false)
	require.NoError(t, os.WriteFile(
		filepath.Join(f.settings.WorkDir, "Cargo.toml"), []byte("[package]\n"), 0o644))
	f.versions.version = "1.4.3" // keep base on the skip path

	err := f.installer.Update(context.Background(), false)
	require.NoError(t, err)

	require.Len(t, f.runner.projectCalls, 1)
	got := f.runner.projectCalls[0]
	assert.True(t, got.ClaudeCode)
	assert.False(t, got.Cursor)
	assert.Equal(t, "rust", got.ProjectType)
	assert.True(t, got.OverwriteInstructions)
	assert.True(t, got.OverwriteStandards)
	assert.True(t, got.OverwriteConfig)
}

func TestUninstallConfirmedRemovesProjectThenBase(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.installProjectOnDisk(t, true, true)

	err := f.installer.Uninstall(false)
	require.NoError(t, err)

	require.Len(t, f.confirm.prompts, 2)
	assert.Contains(t, f.confirm.prompts[0], f.settings.ProjectDir())
	assert.Contains(t, f.confirm.prompts[1], f.settings.BaseDir)

	assert.NoDirExists(t, f.settings.ProjectDir())
	assert.NoDirExists(t, f.settings.BaseDir)
	assert.Contains(t, f.out.String(), "Project installation removed successfully")
	assert.Contains(t, f.out.String(), "Base installation removed successfully")
}

func TestUninstallDeclinedKeepsEverything(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.installProjectOnDisk(t, true, false)
	f.confirm.answer = false

	err := f.installer.Uninstall(false)
	require.NoError(t, err)

	assert.DirExists(t, f.settings.ProjectDir())
	assert.DirExists(t, f.settings.BaseDir)
}

func TestUninstallNothingInstalled(t *testing.T) {
	f := newFixture(t)

	err := f.installer.Uninstall(false)
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "No AgentOS installation found to remove")
	assert.Empty(t, f.confirm.prompts)
}

func TestUninstallProjectOnly(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.installProjectOnDisk(t, false, true)

	err := f.installer.Uninstall(true)
	require.NoError(t, err)

	assert.NoDirExists(t, f.settings.ProjectDir())
	assert.DirExists(t, f.settings.BaseDir, "project-only uninstall must leave base alone")
}

func TestUninstallProjectOnlyMissing(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")

	err := f.installer.Uninstall(true)
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "No project installation found to remove")
	assert.DirExists(t, f.settings.BaseDir)
}

func TestTerminalConfirmer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "yes\n", true},
		{"uppercase", "Y\n", true},
		{"y prefix", "yep\n", true},
		{"no", "n\n", false},
		{"empty line defaults to no", "\n", false},
		{"eof defaults to no", "", false},
		{"garbage", "sure\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := &TerminalConfirmer{In: strings.NewReader(tt.input), Out: &out}
			assert.Equal(t, tt.want, c.Confirm("Proceed?"))
			assert.Contains(t, out.String(), "Proceed? [y/N]")
		})
	}
}

func TestTerminalConfirmerConsecutivePrompts(t *testing.T) {
	// One answer per line must survive across calls; buffering ahead on the
	// first read would starve the second.
	var out bytes.Buffer
	c := &TerminalConfirmer{In: strings.NewReader("y\ny\nn\n"), Out: &out}

	assert.True(t, c.Confirm("Remove project installation?"))
	assert.True(t, c.Confirm("Remove base installation?"))
	assert.False(t, c.Confirm("Once more?"))
}

func TestUninstallBothScopesPipedAnswers(t *testing.T) {
	f := newFixture(t)
	f.installBaseOnDisk(t, "1.4.3")
	f.installProjectOnDisk(t, true, true)

	var promptOut bytes.Buffer
	f.installer.confirm = &TerminalConfirmer{In: strings.NewReader("y\ny\n"), Out: &promptOut}

	err := f.installer.Uninstall(false)
	require.NoError(t, err)

	assert.NoDirExists(t, f.settings.ProjectDir())
	assert.NoDirExists(t, f.settings.BaseDir,
		"second piped answer must reach the base removal prompt")
}
