package listing

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/sourcegraph/conc/iter"

	"github.com/wexinc/nps/internal/config"
	"github.com/wexinc/nps/internal/logging"
	"github.com/wexinc/nps/internal/manifest"
	"github.com/wexinc/nps/internal/render"
	"github.com/wexinc/nps/internal/styles"
)

// DependencyEntry is a declared dependency resolved to its installed manifest.
type DependencyEntry struct {
	// Name is the installed package's own name.
	Name string `json:"name" yaml:"name"`
	// Range is the version range declared in the root manifest.
	Range string `json:"range" yaml:"range"`
	// Description is the installed package's description. Nil when the
	// manifest has none; an empty string is kept and listed.
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	// Installed is the installed package's version, if declared.
	Installed string `json:"installed,omitempty" yaml:"installed,omitempty"`
}

type dependenciesDocument struct {
	Header          `yaml:",inline"`
	Dependencies    []DependencyEntry `json:"dependencies" yaml:"dependencies"`
	DevDependencies []DependencyEntry `json:"devDependencies" yaml:"devDependencies"`
}

// declared is one name/range pair from a dependency map.
type declared struct {
	name string
	rng  string
}

// resolution is the outcome of reading one installed manifest.
type resolution struct {
	declared
	entry DependencyEntry
	err   error
}

// Dependencies lists the dependencies and devDependencies of the project in
// req.Dir on req.Stderr. Dependencies whose installed manifest cannot be
// read are logged and left out.
func (l *Lister) Dependencies(req Request) error {
	m, err := l.loader.LoadDir(req.Dir)
	if err != nil {
		return err
	}

	re, err := compileFilter(req.Filter)
	if err != nil {
		return err
	}

	deps := l.ResolveDependencies(req.Dir, "dependencies", m.Dependencies, re)
	devDeps := l.ResolveDependencies(req.Dir, "devDependencies", m.DevDependencies, re)

	mode := req.Color
	if mode == "" || mode == config.ColorAuto {
		mode = config.ColorAlways
	}

	dst := req.stderr()
	w := writerFor(req.Format, dst, mode)
	switch req.Format {
	case config.FormatJSON, config.FormatYAML:
		doc := dependenciesDocument{Header: headerOf(m), Dependencies: deps, DevDependencies: devDeps}
		if err := encode(w, req.Format, doc); err != nil {
			return err
		}
	default:
		RenderDependencies(w, m, deps, devDeps)
	}

	return flush(w, dst, "stderr")
}

// ResolveDependencies resolves each entry of declaredMap whose name matches
// re to its installed manifest under dir. Entries that fail to resolve are
// logged as warnings and omitted. The result is sorted by name.
func (l *Lister) ResolveDependencies(dir, group string, declaredMap map[string]string, re *regexp.Regexp) []DependencyEntry {
	pairs := make([]declared, 0, len(declaredMap))
	for name, rng := range declaredMap {
		if matches(re, name) {
			pairs = append(pairs, declared{name: name, rng: rng})
		}
	}
	slices.SortFunc(pairs, func(a, b declared) int {
		return strings.Compare(a.name, b.name)
	})

	mapper := iter.Mapper[declared, resolution]{MaxGoroutines: l.workers}
	results := mapper.Map(pairs, func(d *declared) resolution {
		return l.resolve(dir, *d)
	})

	// Diagnostics are emitted here, in name order, rather than from the workers.
	logger := l.logger.With("group", group)
	checkRanges := logger.Enabled(logging.LevelWarn)
	entries := make([]DependencyEntry, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			logger.Warn("skipping dependency", "name", r.name, "error", r.err)
			continue
		}
		if checkRanges {
			checkRange(logger, r)
		}
		entries = append(entries, r.entry)
	}

	slices.SortStableFunc(entries, func(a, b DependencyEntry) int {
		return strings.Compare(a.Name, b.Name)
	})

	logger.Debug("resolved dependencies", "declared", len(declaredMap), "listed", len(entries))
	return entries
}

func (l *Lister) resolve(dir string, d declared) resolution {
	path, err := manifest.DependencyPath(dir, l.modulesDir, d.name)
	if err != nil {
		return resolution{declared: d, err: err}
	}
	dm, err := l.loader.LoadDependency(path)
	if err != nil {
		return resolution{declared: d, err: err}
	}

	name := dm.Name
	if name == "" {
		name = d.name
	}
	return resolution{
		declared: d,
		entry: DependencyEntry{
			Name:        name,
			Range:       d.rng,
			Description: dm.Description,
			Installed:   dm.Version,
		},
	}
}

// checkRange warns when the installed version falls outside the declared
// range. Ranges that are not semver constraints (tags, paths, URLs) are skipped.
func checkRange(logger *logging.Logger, r resolution) {
	if r.entry.Installed == "" {
		return
	}
	constraint, err := semver.NewConstraint(r.rng)
	if err != nil {
		return
	}
	version, err := semver.NewVersion(r.entry.Installed)
	if err != nil {
		return
	}
	if !constraint.Check(version) {
		logger.Warn("installed version does not satisfy declared range",
			"name", r.name, "range", r.rng, "installed", r.entry.Installed)
	}
}

// RenderDependencies writes the header and a summary plus entry list for
// each dependency group.
func RenderDependencies(w *render.Writer, m *manifest.Manifest, deps, devDeps []DependencyEntry) {
	renderHeader(w, headerOf(m))
	renderGroup(w, "Dependencies: ", deps)
	renderGroup(w, "Dev Dependencies: ", devDeps)
}

func renderGroup(w *render.Writer, label string, entries []DependencyEntry) {
	w.Print(styles.SummaryStyle, label)
	w.Println(styles.CountStyle, strconv.Itoa(len(entries)))
	for _, e := range entries {
		w.Print(styles.DependencyNameStyle, e.Name)
		w.Println(styles.VersionRangeStyle, " "+e.Range)
		if e.Description != nil {
			w.Println(styles.DependencyDescriptionStyle, "    "+*e.Description)
		}
	}
}
