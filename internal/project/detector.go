// Package project resolves the project directory nps inspects.
package project

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	npserrors "github.com/wexinc/nps/internal/errors"
	"github.com/wexinc/nps/internal/manifest"
)

// Info contains information about a resolved project.
type Info struct {
	// Path is the absolute path to the project directory.
	Path string `json:"path"`
	// Name is the directory name.
	Name string `json:"name"`
	// ManifestPath is the path of the root package.json.
	ManifestPath string `json:"manifest_path"`
	// HasManifest indicates whether package.json exists.
	HasManifest bool `json:"has_manifest"`
	// HasModules indicates whether the installed-dependencies directory exists.
	HasModules bool `json:"has_modules"`
	// PackageManager is the package manager implied by lockfiles (npm, yarn, pnpm, bun).
	PackageManager string `json:"package_manager,omitempty"`
	// Markers are the markers found (package.json, yarn.lock, etc.).
	Markers []string `json:"markers,omitempty"`
}

// Marker represents a file that indicates how a project is managed.
type Marker struct {
	// Name is the file name to look for.
	Name string
	// PackageManager is the package manager this marker indicates.
	PackageManager string
}

// DefaultMarkers are the markers checked during detection, in priority order.
var DefaultMarkers = []Marker{
	{Name: manifest.FileName},
	{Name: "pnpm-lock.yaml", PackageManager: "pnpm"},
	{Name: "yarn.lock", PackageManager: "yarn"},
	{Name: "bun.lock", PackageManager: "bun"},
	{Name: "bun.lockb", PackageManager: "bun"},
	{Name: "package-lock.json", PackageManager: "npm"},
	{Name: "npm-shrinkwrap.json", PackageManager: "npm"},
}

// Detector resolves project directories.
type Detector struct {
	// Markers are the markers to check.
	Markers []Marker
	// ModulesDir is the installed-dependencies directory name.
	ModulesDir string

	fs afero.Fs
}

// NewDetector creates a new Detector with default markers.
// A nil fsys means the OS filesystem.
func NewDetector(fsys afero.Fs) *Detector {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Detector{
		Markers:    DefaultMarkers,
		ModulesDir: manifest.DefaultModulesDir,
		fs:         fsys,
	}
}

// Detect resolves dir to an absolute project directory.
// An empty dir means the current working directory. Detect fails only when
// dir does not exist or is not a directory; a missing package.json is
// reported through Info.HasManifest.
func (d *Detector) Detect(dir string) (*Info, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, npserrors.ProjectNotFound(".", err)
		}
		dir = wd
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, npserrors.ProjectNotFound(dir, err)
	}

	fi, err := d.fs.Stat(absPath)
	if err != nil {
		return nil, npserrors.ProjectNotFound(absPath, err)
	}
	if !fi.IsDir() {
		return nil, npserrors.ProjectNotFound(absPath, errors.New("not a directory"))
	}

	info := &Info{
		Path:         absPath,
		Name:         filepath.Base(absPath),
		ManifestPath: filepath.Join(absPath, manifest.FileName),
		Markers:      []string{},
	}

	for _, marker := range d.Markers {
		if !d.isFile(filepath.Join(absPath, marker.Name)) {
			continue
		}
		info.Markers = append(info.Markers, marker.Name)
		if marker.Name == manifest.FileName {
			info.HasManifest = true
		}
		if marker.PackageManager != "" && info.PackageManager == "" {
			info.PackageManager = marker.PackageManager
		}
	}

	if d.ModulesDir != "" {
		if fi, err := d.fs.Stat(filepath.Join(absPath, d.ModulesDir)); err == nil && fi.IsDir() {
			info.HasModules = true
		}
	}

	return info, nil
}

func (d *Detector) isFile(path string) bool {
	fi, err := d.fs.Stat(path)
	return err == nil && !fi.IsDir()
}
