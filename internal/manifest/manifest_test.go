package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	npserrors "github.com/wexinc/nps/internal/errors"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_Full(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/app/package.json", `{
  "name": "foo",
  "version": "1.0.0",
  "description": "a foo",
  "private": true,
  "scripts": {"build": "tsc", "test": "jest"},
  "dependencies": {"bar": "^2.0.0"},
  "devDependencies": {"jest": "^29.0.0"}
}`)

	m, err := NewLoader(fsys).LoadDir("/app")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if m.Name != "foo" || m.Version != "1.0.0" {
		t.Errorf("got %s %s, want foo 1.0.0", m.Name, m.Version)
	}
	if m.Description == nil || *m.Description != "a foo" {
		t.Errorf("Description = %v, want %q", m.Description, "a foo")
	}
	if m.Scripts["build"] != "tsc" || m.Scripts["test"] != "jest" {
		t.Errorf("Scripts = %v", m.Scripts)
	}
	if m.Dependencies["bar"] != "^2.0.0" {
		t.Errorf("Dependencies = %v", m.Dependencies)
	}
	if m.DevDependencies["jest"] != "^29.0.0" {
		t.Errorf("DevDependencies = %v", m.DevDependencies)
	}
}

func TestLoad_OptionalFieldsDefault(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/app/package.json", `{"name":"foo","version":"1.0.0","scripts":null}`)

	m, err := NewLoader(fsys).LoadDir("/app")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if m.Description != nil {
		t.Errorf("Description = %q, want nil", *m.Description)
	}
	if m.Scripts == nil || len(m.Scripts) != 0 {
		t.Errorf("Scripts = %v, want empty map", m.Scripts)
	}
	if m.Dependencies == nil || m.DevDependencies == nil {
		t.Error("dependency maps should default to empty, not nil")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind error
	}{
		{name: "malformed json", content: `{"name": "foo",`, wantKind: npserrors.ErrParse},
		{name: "empty file", content: "", wantKind: npserrors.ErrParse},
		{name: "not an object", content: `["foo"]`, wantKind: npserrors.ErrParse},
		{name: "script not a string", content: `{"name":"foo","version":"1.0.0","scripts":{"build":1}}`, wantKind: npserrors.ErrParse},
		{name: "missing name", content: `{"version":"1.0.0"}`, wantKind: npserrors.ErrParse},
		{name: "missing version", content: `{"name":"foo"}`, wantKind: npserrors.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "/app/package.json", tt.content)

			_, err := NewLoader(fsys).LoadDir("/app")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := NewLoader(afero.NewMemMapFs()).LoadDir("/missing")
	if !errors.Is(err, npserrors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLoad_ReadError(t *testing.T) {
	// A directory named package.json exists but cannot be read as a file
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, FileName), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	_, err := NewLoader(nil).LoadDir(tmpDir)
	if !errors.Is(err, npserrors.ErrRead) {
		t.Fatalf("error = %v, want ErrRead", err)
	}
}

func TestLoad_ByteOrderMark(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/app/package.json", "\xef\xbb\xbf{\"name\":\"foo\",\"version\":\"1.0.0\"}")

	if _, err := NewLoader(fsys).LoadDir("/app"); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
}

func TestLoadDependency(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/app/node_modules/bar/package.json", `{"name":"bar","version":"2.1.0","description":"does bar things"}`)
	writeFile(t, fsys, "/app/node_modules/bare/package.json", `{}`)

	l := NewLoader(fsys)
	path := func(name string) string {
		t.Helper()
		p, err := DependencyPath("/app", "", name)
		if err != nil {
			t.Fatalf("DependencyPath(%q) error = %v", name, err)
		}
		return p
	}

	dm, err := l.LoadDependency(path("bar"))
	if err != nil {
		t.Fatalf("LoadDependency() error = %v", err)
	}
	if dm.Name != "bar" || dm.Version != "2.1.0" || dm.Description == nil || *dm.Description != "does bar things" {
		t.Errorf("got %+v", dm)
	}

	// Name is optional for installed packages
	dm, err = l.LoadDependency(path("bare"))
	if err != nil {
		t.Fatalf("LoadDependency() error = %v", err)
	}
	if dm.Name != "" || dm.Description != nil {
		t.Errorf("got %+v, want zero values", dm)
	}

	_, err = l.LoadDependency(path("left-pad"))
	if !errors.Is(err, npserrors.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDependencyPath(t *testing.T) {
	tests := []struct {
		dir, modules, name string
		want               string
	}{
		{"/app", "", "bar", filepath.Join("/app", "node_modules", "bar", "package.json")},
		{"/app", "vendor", "bar", filepath.Join("/app", "vendor", "bar", "package.json")},
		{"/app", "", "@types/node", filepath.Join("/app", "node_modules", "@types", "node", "package.json")},
	}

	for _, tt := range tests {
		got, err := DependencyPath(tt.dir, tt.modules, tt.name)
		if err != nil {
			t.Errorf("DependencyPath(%q, %q, %q) error = %v", tt.dir, tt.modules, tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DependencyPath(%q, %q, %q) = %q, want %q", tt.dir, tt.modules, tt.name, got, tt.want)
		}
	}
}

func TestDependencyPath_RejectsEscapingNames(t *testing.T) {
	names := []string{
		"",
		"..",
		"../../x",
		"@scope/../../etc",
		"./bar",
		"bar/..",
		`..\evil`,
		"/etc/passwd",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			got, err := DependencyPath("/app", "", name)
			if !errors.Is(err, npserrors.ErrInvalidName) {
				t.Errorf("DependencyPath(%q) = %q, %v; want ErrInvalidName", name, got, err)
			}
		})
	}
}

func TestLoad_EmptyDescriptionIsKept(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/app/package.json", `{"name":"foo","version":"1.0.0","description":""}`)

	m, err := NewLoader(fsys).LoadDir("/app")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if m.Description == nil || *m.Description != "" {
		t.Errorf("Description = %v, want pointer to empty string", m.Description)
	}
}
