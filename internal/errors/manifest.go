package errors

import (
	"fmt"
	"strings"
)

// Manifest-related error constructors.

// ManifestNotFound creates an error for a missing package.json.
func ManifestNotFound(path string, cause error) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: "manifest not found",
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Run nps inside a Node project, or pass its directory:
  nps ./path/to/project`,
	}
}

// ManifestReadError creates an error for an existing manifest that cannot be read.
func ManifestReadError(path string, cause error) *Error {
	return &Error{
		Kind:    ErrRead,
		Message: "failed to read manifest",
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: "Check that the file is readable and is not a directory.",
	}
}

// ManifestParseError creates an error for malformed or mis-shaped JSON.
func ManifestParseError(path string, cause error) *Error {
	return &Error{
		Kind:    ErrParse,
		Message: fmt.Sprintf("failed to parse manifest %s", path),
		Cause:   cause,
		Details: map[string]string{
			"path": path,
		},
		Suggestion: `Check package.json for syntax errors:
  - "name" and "version" must be strings
  - "scripts", "dependencies" and "devDependencies" must map strings to strings
  - Validate with: node -e 'require("./package.json")'`,
	}
}

// ProjectNotFound creates an error when the target directory does not exist.
func ProjectNotFound(dir string, cause error) *Error {
	return &Error{
		Kind:    ErrNotFound,
		Message: "project directory not found",
		Cause:   cause,
		Details: map[string]string{
			"directory": dir,
		},
	}
}

// InvalidDependencyName creates an error for a declared dependency name that
// would resolve outside the modules directory.
func InvalidDependencyName(name string, cause error) *Error {
	return &Error{
		Kind:    ErrInvalidName,
		Message: fmt.Sprintf("invalid dependency name %q", name),
		Cause:   cause,
		Details: map[string]string{
			"name": name,
		},
	}
}

// Filter and output error constructors.

// InvalidPattern creates an error for a filter expression that does not compile.
func InvalidPattern(pattern string, cause error) *Error {
	return &Error{
		Kind:    ErrInvalidPattern,
		Message: fmt.Sprintf("invalid filter pattern %q", pattern),
		Cause:   cause,
		Details: map[string]string{
			"pattern": pattern,
		},
		Suggestion: `Filters use Go regular expression syntax and match anywhere in the name:
  nps --filter '^test'
  nps -d --filter 'eslint|prettier'`,
	}
}

// OutputFailed creates an error for a failed write to stdout or stderr.
func OutputFailed(stream string, cause error) *Error {
	return &Error{
		Kind:    ErrOutput,
		Message: fmt.Sprintf("failed to write to %s", stream),
		Cause:   cause,
		Details: map[string]string{
			"stream": stream,
		},
	}
}

// Configuration-related error constructors.

// ConfigParseError creates an error for config file parsing failures.
func ConfigParseError(configPath string, parseErr error) *Error {
	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("failed to parse configuration: %s", configPath),
		Cause:   parseErr,
		Details: map[string]string{
			"path": configPath,
		},
		Suggestion: `Check your config.yaml for syntax errors:
  1. Ensure proper YAML indentation (use spaces, not tabs)
  2. Check for missing colons or quotes`,
	}
}

// ConfigValidationError creates an error for invalid configuration values.
func ConfigValidationError(field, message string, validOptions []string) *Error {
	suggestion := fmt.Sprintf("Fix the %q setting in your config file or NPS_ environment", field)
	if len(validOptions) > 0 {
		suggestion += fmt.Sprintf("\n  Valid options: %s", strings.Join(validOptions, ", "))
	}

	return &Error{
		Kind:    ErrConfig,
		Message: fmt.Sprintf("invalid configuration: %s", message),
		Details: map[string]string{
			"field": field,
		},
		Suggestion: suggestion,
	}
}
