// Package listing renders the scripts and dependencies declared in a
// project manifest.
//
// Each listing is rendered into an in-memory buffer and written to its
// destination stream in one call: scripts go to stdout, dependencies to
// stderr with color forced on.
package listing

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"regexp"

	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/wexinc/nps/internal/config"
	npserrors "github.com/wexinc/nps/internal/errors"
	"github.com/wexinc/nps/internal/logging"
	"github.com/wexinc/nps/internal/manifest"
	"github.com/wexinc/nps/internal/render"
	"github.com/wexinc/nps/internal/styles"
)

// Lister lists scripts and dependencies of projects.
type Lister struct {
	loader     *manifest.Loader
	logger     *logging.Logger
	modulesDir string
	workers    int
}

// Option configures a Lister.
type Option func(*Lister)

// WithLogger sets the logger receiving per-dependency diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Lister) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithModulesDir sets the installed-dependencies directory name.
func WithModulesDir(dir string) Option {
	return func(l *Lister) {
		if dir != "" {
			l.modulesDir = dir
		}
	}
}

// WithWorkers bounds concurrent dependency manifest reads.
// Values below one mean sequential reads.
func WithWorkers(n int) Option {
	return func(l *Lister) {
		l.workers = max(n, 1)
	}
}

// New creates a Lister reading manifests through loader.
func New(loader *manifest.Loader, opts ...Option) *Lister {
	if loader == nil {
		loader = manifest.NewLoader(nil)
	}
	l := &Lister{
		loader:     loader,
		logger:     logging.Global(),
		modulesDir: manifest.DefaultModulesDir,
		workers:    config.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Request describes one listing.
type Request struct {
	// Dir is the project directory holding package.json.
	Dir string
	// Filter is an optional regular expression matched anywhere in names.
	Filter string
	// Format selects text, json or yaml output (default: text).
	Format config.Format
	// Color controls colorization; the dependency listing treats auto as always.
	Color config.ColorMode
	// Stdout receives the script listing (default: os.Stdout).
	Stdout io.Writer
	// Stderr receives the dependency listing (default: os.Stderr).
	Stderr io.Writer
}

func (r Request) stdout() io.Writer {
	if r.Stdout == nil {
		return os.Stdout
	}
	return r.Stdout
}

func (r Request) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

// compileFilter compiles pattern, returning nil for an empty pattern.
func compileFilter(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, npserrors.InvalidPattern(pattern, err)
	}
	return re, nil
}

func matches(re *regexp.Regexp, name string) bool {
	return re == nil || re.MatchString(name)
}

// Header is the project identity shared by both listings.
type Header struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

func headerOf(m *manifest.Manifest) Header {
	return Header{Name: m.Name, Version: m.Version, Description: m.Description}
}

// renderHeader writes "{name} {version}", followed by " - {description}"
// whenever the manifest declares a description, even an empty one.
func renderHeader(w *render.Writer, h Header) {
	w.Print(styles.HeaderStyle, h.Name+" "+h.Version)
	if h.Description != nil {
		w.Print(styles.DescriptionStyle, " - "+*h.Description)
	}
	w.Newline()
}

// encode renders doc as a JSON or YAML document into w.
func encode(w *render.Writer, format config.Format, doc any) error {
	var buf bytes.Buffer
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	w.Raw(buf.Bytes())
	return nil
}

// flush writes w to dst, wrapping failures as output errors.
func flush(w *render.Writer, dst io.Writer, stream string) error {
	if err := w.FlushTo(dst); err != nil {
		return npserrors.OutputFailed(stream, err)
	}
	return nil
}

// writerFor returns a render.Writer for format; structured formats are never colored.
func writerFor(format config.Format, dst io.Writer, mode config.ColorMode) *render.Writer {
	if format == config.FormatJSON || format == config.FormatYAML {
		return render.NewWriter(termenv.Ascii)
	}
	return render.NewWriter(render.ProfileFor(dst, mode))
}
