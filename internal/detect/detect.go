// Package detect classifies a project directory into a labeled project type.
//
// Detection is a pure function of the directory's file listing plus the
// contents of package.json when present. Families are checked in a fixed
// priority order (Python before JavaScript before Rust, and so on), so a
// directory carrying markers from several ecosystems resolves to the
// highest-priority family. Detection never fails; directories with no
// recognizable markers are labeled "default".
package detect

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultType is the label returned when no detector family matches.
const DefaultType = "default"

// FileRule maps a marker file to a project-type label.
type FileRule struct {
	File string
	Type string
}

// DependencyRule maps a package.json dependency to a project-type label.
type DependencyRule struct {
	Dependency string
	Type       string
}

// Settings holds the detection tables. Slices are ordered; order is the
// priority order within each family.
type Settings struct {
	PythonFiles       []string
	PythonRefinements []FileRule
	PythonDefault     string

	JavaScriptFiles      []string
	JavaScriptFrameworks []DependencyRule
	JavaScriptDefault    string

	RustFiles       []string
	GoFiles         []string
	JavaMavenFiles  []string
	JavaGradleFiles []string
	CppFiles        []string
	WebFiles        []string
}

// DefaultSettings returns the built-in detection tables.
func DefaultSettings() Settings {
	return Settings{
		PythonFiles: []string{
			"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt",
			"Pipfile", "poetry.lock", "uv.lock", "__init__.py",
		},
		PythonRefinements: []FileRule{
			{File: "pyproject.toml", Type: "python-modern"},
			{File: "poetry.lock", Type: "python-poetry"},
			{File: "uv.lock", Type: "python-uv"},
		},
		PythonDefault: "python",

		JavaScriptFiles: []string{"package.json", "yarn.lock", "package-lock.json", "bun.lockb"},
		JavaScriptFrameworks: []DependencyRule{
			{Dependency: "next", Type: "javascript-nextjs"},
			{Dependency: "react", Type: "javascript-react"},
			{Dependency: "vue", Type: "javascript-vue"},
			{Dependency: "express", Type: "javascript-express"},
		},
		JavaScriptDefault: "javascript",

		RustFiles:       []string{"Cargo.toml"},
		GoFiles:         []string{"go.mod", "go.sum"},
		JavaMavenFiles:  []string{"pom.xml"},
		JavaGradleFiles: []string{"build.gradle", "build.gradle.kts"},
		CppFiles:        []string{"CMakeLists.txt", "Makefile", "configure.ac"},
		WebFiles:        []string{"index.html", "index.htm", "webpack.config.js", "vite.config.js"},
	}
}

// Detector classifies project directories using the configured tables.
type Detector struct {
	settings Settings
}

// New creates a detector from the given tables.
func New(settings Settings) *Detector {
	return &Detector{settings: settings}
}

// Detect returns the project-type label for root. It always returns a label.
func (d *Detector) Detect(root string) string {
	detectors := []func(string) string{
		d.detectPython,
		d.detectJavaScript,
		d.detectRust,
		d.detectGo,
		d.detectJava,
		d.detectCpp,
		d.detectWeb,
	}

	for _, fn := range detectors {
		if t := fn(root); t != "" {
			return t
		}
	}

	return DefaultType
}

func (d *Detector) detectPython(root string) string {
	if !anyExists(root, d.settings.PythonFiles) {
		return ""
	}

	for _, rule := range d.settings.PythonRefinements {
		if exists(filepath.Join(root, rule.File)) {
			return rule.Type
		}
	}
	return d.settings.PythonDefault
}

func (d *Detector) detectJavaScript(root string) string {
	if !anyExists(root, d.settings.JavaScriptFiles) {
		return ""
	}

	if t := d.detectFramework(filepath.Join(root, "package.json")); t != "" {
		return t
	}
	return d.settings.JavaScriptDefault
}

// detectFramework matches known framework dependencies in package.json.
// A missing or malformed manifest is swallowed; the caller falls back to the
// generic JavaScript label.
func (d *Detector) detectFramework(manifestPath string) string {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return ""
	}

	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}

	deps := make(map[string]struct{}, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for dep := range manifest.Dependencies {
		deps[dep] = struct{}{}
	}
	for dep := range manifest.DevDependencies {
		deps[dep] = struct{}{}
	}

	for _, rule := range d.settings.JavaScriptFrameworks {
		if _, ok := deps[rule.Dependency]; ok {
			return rule.Type
		}
	}
	return ""
}

func (d *Detector) detectRust(root string) string {
	if anyExists(root, d.settings.RustFiles) {
		return "rust"
	}
	return ""
}

func (d *Detector) detectGo(root string) string {
	if anyExists(root, d.settings.GoFiles) {
		return "go"
	}
	return ""
}

// detectJava checks Maven markers before Gradle markers.
func (d *Detector) detectJava(root string) string {
	if anyExists(root, d.settings.JavaMavenFiles) {
		return "java-maven"
	}
	if anyExists(root, d.settings.JavaGradleFiles) {
		return "java-gradle"
	}
	return ""
}

func (d *Detector) detectCpp(root string) string {
	if anyExists(root, d.settings.CppFiles) {
		return "cpp"
	}
	return ""
}

func (d *Detector) detectWeb(root string) string {
	if anyExists(root, d.settings.WebFiles) {
		return "web"
	}
	return ""
}

func anyExists(root string, names []string) bool {
	for _, name := range names {
		if exists(filepath.Join(root, name)) {
			return true
		}
	}
	return false
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
