// Package manifest loads package.json files.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	npserrors "github.com/wexinc/nps/internal/errors"
)

const (
	// FileName is the manifest file name inside a project or installed package.
	FileName = "package.json"

	// DefaultModulesDir is the directory holding installed dependencies.
	DefaultModulesDir = "node_modules"
)

// Manifest is a root project manifest.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     *string           `json:"description,omitempty"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// DependencyManifest is the subset of an installed package's manifest nps reads.
type DependencyManifest struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description *string `json:"description,omitempty"`
}

// rawManifest distinguishes missing required fields from empty ones.
type rawManifest struct {
	Name            *string           `json:"name"`
	Version         *string           `json:"version"`
	Description     *string           `json:"description"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Loader reads manifests from a filesystem.
type Loader struct {
	fs afero.Fs
}

// NewLoader creates a Loader reading from fsys.
// A nil fsys means the OS filesystem.
func NewLoader(fsys afero.Fs) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{fs: fsys}
}

// Load reads the root manifest at path.
// The name and version fields are required. A missing description stays nil
// and every other field defaults to empty.
func (l *Loader) Load(path string) (*Manifest, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var raw rawManifest
	if err := decode(data, &raw); err != nil {
		return nil, npserrors.ManifestParseError(path, err)
	}
	if raw.Name == nil {
		return nil, npserrors.ManifestParseError(path, errors.New(`missing field "name"`))
	}
	if raw.Version == nil {
		return nil, npserrors.ManifestParseError(path, errors.New(`missing field "version"`))
	}

	m := &Manifest{
		Name:            *raw.Name,
		Version:         *raw.Version,
		Description:     raw.Description,
		Scripts:         orEmpty(raw.Scripts),
		Dependencies:    orEmpty(raw.Dependencies),
		DevDependencies: orEmpty(raw.DevDependencies),
	}
	return m, nil
}

// LoadDir reads the root manifest of the project in dir.
func (l *Loader) LoadDir(dir string) (*Manifest, error) {
	return l.Load(filepath.Join(dir, FileName))
}

// LoadDependency reads the manifest of an installed package.
func (l *Loader) LoadDependency(path string) (*DependencyManifest, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var dm DependencyManifest
	if err := decode(data, &dm); err != nil {
		return nil, npserrors.ManifestParseError(path, err)
	}
	return &dm, nil
}

// DependencyPath returns the manifest path of the installed package name.
// Scoped names such as "@scope/pkg" map to nested directories. Names that
// would resolve outside the modules directory are rejected.
func DependencyPath(projectDir, modulesDir, name string) (string, error) {
	if err := checkDependencyName(name); err != nil {
		return "", npserrors.InvalidDependencyName(name, err)
	}
	if modulesDir == "" {
		modulesDir = DefaultModulesDir
	}
	return filepath.Join(projectDir, modulesDir, filepath.FromSlash(name), FileName), nil
}

// checkDependencyName rejects empty, absolute and dot segments.
func checkDependencyName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) || filepath.IsAbs(name) {
		return errors.New("absolute path")
	}
	for _, segment := range strings.FieldsFunc(name, isSeparator) {
		if segment == "." || segment == ".." {
			return fmt.Errorf("path segment %q", segment)
		}
	}
	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

func (l *Loader) read(path string) ([]byte, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, npserrors.ManifestNotFound(path, err)
		}
		return nil, npserrors.ManifestReadError(path, err)
	}
	return data, nil
}

func decode(data []byte, v any) error {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty file")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
