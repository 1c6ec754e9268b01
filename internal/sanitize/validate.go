// Package sanitize provides input validation for untrusted strings that are
// passed to external installer scripts.
//
// Project-type identifiers are the only user-controlled value that ever
// reaches a subprocess argument list, so they are held to a tight grammar:
// alphanumeric plus dash/underscore, with no shell metacharacters and no
// path separators. Validation runs before any argv is built.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validation errors for security checks.
var (
	// ErrInvalidProjectType indicates a project type failed the safe-token grammar.
	ErrInvalidProjectType = errors.New("invalid project type")
)

// projectTypePattern matches valid project-type tokens: alphanumeric with
// dashes and underscores.
var projectTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// dangerousChars are shell metacharacters and escape sequences rejected
// explicitly, on top of the character-class check. Most are already excluded
// by projectTypePattern; the explicit list is kept so the two checks fail
// independently.
var dangerousChars = []string{
	"$", "|", ";", "&", "`", "(", ")", "{", "}", "[", "]", "<", ">", "!", "\\n", "\\t",
}

// ProjectType validates a project-type token for use in a script argument
// list.
//
// Rules:
//   - non-empty
//   - no path separators or traversal sequences (/, \, ..)
//   - matches ^[a-zA-Z0-9_-]+$
//   - does not start or end with dash or underscore
//   - contains none of the shell metacharacters in dangerousChars
//
// Returns an error wrapping ErrInvalidProjectType on any violation.
func ProjectType(projectType string) error {
	if projectType == "" {
		return fmt.Errorf("%w: project type cannot be empty", ErrInvalidProjectType)
	}

	// Directory traversal and path separators.
	if strings.Contains(projectType, "..") ||
		strings.Contains(projectType, "/") ||
		strings.Contains(projectType, "\\") {
		return fmt.Errorf("%w: %q contains path characters", ErrInvalidProjectType, projectType)
	}

	if !projectTypePattern.MatchString(projectType) {
		return fmt.Errorf(
			"%w: %q must contain only alphanumeric characters, dashes, and underscores",
			ErrInvalidProjectType, projectType)
	}

	if strings.HasPrefix(projectType, "-") || strings.HasPrefix(projectType, "_") ||
		strings.HasSuffix(projectType, "-") || strings.HasSuffix(projectType, "_") {
		return fmt.Errorf(
			"%w: %q cannot start or end with dash or underscore",
			ErrInvalidProjectType, projectType)
	}

	for _, c := range dangerousChars {
		if strings.Contains(projectType, c) {
			return fmt.Errorf("%w: %q contains unsafe character", ErrInvalidProjectType, projectType)
		}
	}

	return nil
}
