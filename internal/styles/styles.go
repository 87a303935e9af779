// Package styles provides Lip Gloss styles for nps listings.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for listings.
var (
	Foreground = lipgloss.Color("7")       // White
	Accent     = lipgloss.Color("6")       // Cyan
	Summary    = lipgloss.Color("2")       // Green
	Muted      = lipgloss.Color("#646464") // Grey
)

// base keeps tabs in script commands intact.
var base = lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)

// Header styles.
var (
	// HeaderStyle is for the "{name} {version}" line.
	HeaderStyle = base.
			Foreground(Foreground).
			Bold(true)

	// DescriptionStyle is for the " - {description}" suffix of the header.
	DescriptionStyle = base.
				Foreground(Foreground)
)

// Script listing styles.
var (
	// ScriptNameStyle is for script names.
	ScriptNameStyle = base.
			Foreground(Accent)

	// ScriptCommandStyle is for the indented script command.
	ScriptCommandStyle = base.
				Foreground(Foreground)
)

// Dependency listing styles.
var (
	// SummaryStyle is for the "Dependencies:" label.
	SummaryStyle = base.
			Foreground(Summary)

	// CountStyle is for the count following the summary label.
	CountStyle = base.
			Foreground(Foreground)

	// DependencyNameStyle is for dependency names.
	DependencyNameStyle = base.
				Foreground(Accent)

	// VersionRangeStyle is for the declared version range.
	VersionRangeStyle = base.
				Foreground(Muted)

	// DependencyDescriptionStyle is for the indented dependency description.
	DependencyDescriptionStyle = base.
					Foreground(Foreground)
)
