package listing

import (
	"regexp"
	"slices"
	"strings"

	"github.com/wexinc/nps/internal/config"
	"github.com/wexinc/nps/internal/manifest"
	"github.com/wexinc/nps/internal/render"
	"github.com/wexinc/nps/internal/styles"
)

// ScriptEntry is one entry of the manifest's scripts map.
type ScriptEntry struct {
	Name    string `json:"name" yaml:"name"`
	Command string `json:"command" yaml:"command"`
}

type scriptsDocument struct {
	Header  `yaml:",inline"`
	Scripts []ScriptEntry `json:"scripts" yaml:"scripts"`
}

// CollectScripts returns the scripts of m whose names match re, sorted by name.
// A nil re keeps every script.
func CollectScripts(m *manifest.Manifest, re *regexp.Regexp) []ScriptEntry {
	entries := make([]ScriptEntry, 0, len(m.Scripts))
	for name, command := range m.Scripts {
		if matches(re, name) {
			entries = append(entries, ScriptEntry{Name: name, Command: command})
		}
	}
	slices.SortFunc(entries, func(a, b ScriptEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries
}

// Scripts lists the scripts of the project in req.Dir on req.Stdout.
func (l *Lister) Scripts(req Request) error {
	m, err := l.loader.LoadDir(req.Dir)
	if err != nil {
		return err
	}

	re, err := compileFilter(req.Filter)
	if err != nil {
		return err
	}

	entries := CollectScripts(m, re)
	l.logger.Debug("listing scripts", "dir", req.Dir, "declared", len(m.Scripts), "listed", len(entries))

	dst := req.stdout()
	w := writerFor(req.Format, dst, req.Color)
	switch req.Format {
	case config.FormatJSON, config.FormatYAML:
		doc := scriptsDocument{Header: headerOf(m), Scripts: entries}
		if err := encode(w, req.Format, doc); err != nil {
			return err
		}
	default:
		RenderScripts(w, m, entries)
	}

	return flush(w, dst, "stdout")
}

// RenderScripts writes the header followed by a name line and an indented
// command line per entry.
func RenderScripts(w *render.Writer, m *manifest.Manifest, entries []ScriptEntry) {
	renderHeader(w, headerOf(m))
	for _, e := range entries {
		w.Println(styles.ScriptNameStyle, e.Name)
		w.Println(styles.ScriptCommandStyle, "    "+e.Command)
	}
}
