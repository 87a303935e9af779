// Package render provides a buffered styled writer for terminal output.
//
// Listings accumulate styled text in memory and reach their destination
// stream in a single write.
package render

import (
	"bytes"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wexinc/nps/internal/config"
)

// Writer buffers styled text rendered with a fixed color profile.
type Writer struct {
	buf      bytes.Buffer
	renderer *lipgloss.Renderer
}

// NewWriter creates a Writer that renders with profile.
func NewWriter(profile termenv.Profile) *Writer {
	w := &Writer{}
	w.renderer = lipgloss.NewRenderer(&w.buf)
	w.renderer.SetColorProfile(profile)
	return w
}

// ProfileFor picks the color profile for output written to dst.
// ColorAuto inspects dst and the environment (NO_COLOR, CLICOLOR_FORCE).
func ProfileFor(dst io.Writer, mode config.ColorMode) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		return termenv.TrueColor
	case config.ColorNever:
		return termenv.Ascii
	default:
		return termenv.NewOutput(dst).EnvColorProfile()
	}
}

// Print writes text in style.
// Each line of a multi-line text is styled on its own and the newlines
// between them are written unstyled, so lines keep their original width.
func (w *Writer) Print(style lipgloss.Style, text string) {
	if text == "" {
		return
	}
	style = style.Renderer(w.renderer)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			w.Newline()
		}
		if line != "" {
			w.buf.WriteString(style.Render(line))
		}
	}
}

// Println writes text in style followed by a newline.
// The newline itself is unstyled.
func (w *Writer) Println(style lipgloss.Style, text string) {
	w.Print(style, text)
	w.Newline()
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf.WriteByte('\n')
}

// Raw writes b without styling.
func (w *Writer) Raw(b []byte) {
	w.buf.Write(b)
}

// String returns the buffered output.
func (w *Writer) String() string {
	return w.buf.String()
}

// Len returns the number of buffered bytes.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// FlushTo writes the buffered output to dst in one call and resets the buffer.
func (w *Writer) FlushTo(dst io.Writer) error {
	defer w.buf.Reset()
	n, err := dst.Write(w.buf.Bytes())
	if err != nil {
		return err
	}
	if n < w.buf.Len() {
		return io.ErrShortWrite
	}
	return nil
}
