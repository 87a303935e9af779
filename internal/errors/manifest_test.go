package errors

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestManifestNotFound(t *testing.T) {
	err := ManifestNotFound("/app/package.json", fs.ErrNotExist)

	if !errors.Is(err, ErrNotFound) {
		t.Error("ManifestNotFound should return ErrNotFound")
	}
	if err.Details["path"] != "/app/package.json" {
		t.Error("Should include path in details")
	}
	if err.Error() != "manifest not found: file does not exist" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestManifestParseError(t *testing.T) {
	parseErr := errors.New("unexpected end of JSON input")
	err := ManifestParseError("/app/package.json", parseErr)

	if !errors.Is(err, ErrParse) {
		t.Error("ManifestParseError should return ErrParse")
	}
	if !errors.Is(err.Cause, parseErr) {
		t.Error("Should wrap the parse error")
	}
	if !strings.Contains(err.Error(), "/app/package.json") {
		t.Error("Message should name the manifest path")
	}
}

func TestManifestReadError(t *testing.T) {
	err := ManifestReadError("/app/package.json", errors.New("is a directory"))
	if !errors.Is(err, ErrRead) {
		t.Error("ManifestReadError should return ErrRead")
	}
}

func TestInvalidPattern(t *testing.T) {
	err := InvalidPattern("(", errors.New("missing closing )"))

	if !errors.Is(err, ErrInvalidPattern) {
		t.Error("InvalidPattern should return ErrInvalidPattern")
	}
	if !strings.Contains(err.Error(), `"("`) {
		t.Errorf("Error() should quote the pattern, got %q", err.Error())
	}
}

func TestOutputFailed(t *testing.T) {
	err := OutputFailed("stderr", errors.New("broken pipe"))
	if !errors.Is(err, ErrOutput) {
		t.Error("OutputFailed should return ErrOutput")
	}
	if err.Error() != "failed to write to stderr: broken pipe" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestConfigValidationError(t *testing.T) {
	err := ConfigValidationError("color", "color must be auto, always or never", []string{"auto", "always", "never"})

	if !errors.Is(err, ErrConfig) {
		t.Error("ConfigValidationError should return ErrConfig")
	}
	if !strings.Contains(err.Suggestion, "auto, always, never") {
		t.Error("Suggestion should list valid options")
	}
}

func TestInvalidDependencyName(t *testing.T) {
	err := InvalidDependencyName("../x", errors.New(`path segment ".."`))

	if !errors.Is(err, ErrInvalidName) {
		t.Error("InvalidDependencyName should return ErrInvalidName")
	}
	if err.Details["name"] != "../x" {
		t.Error("Should include name in details")
	}
	if !strings.HasPrefix(err.Error(), `invalid dependency name "../x"`) {
		t.Errorf("Error() = %q", err.Error())
	}
}
