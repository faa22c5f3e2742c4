package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolWarning = "!"
	SymbolError   = "✗"
)

// Palette.
var (
	colorAccent  = lipgloss.Color("#5B8DEF")
	colorMuted   = lipgloss.Color("#8A8F98")
	colorSuccess = lipgloss.Color("#3FB950")
	colorWarning = lipgloss.Color("#D29922")
	colorError   = lipgloss.Color("#F85149")
	colorInfo    = lipgloss.Color("#58A6FF")
)

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	UnitPath lipgloss.Style
	RuleID   lipgloss.Style
}

// newStyles binds styles to w. With color disabled every style renders
// plain text regardless of the terminal's capabilities.
func newStyles(w io.Writer, color bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if color {
		profile := termenv.EnvColorProfile()
		if termenv.EnvNoColor() {
			profile = termenv.Ascii
		}
		lr.SetColorProfile(profile)
	} else {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1:  lr.NewStyle().Bold(true).Foreground(colorAccent),
		Header2:  lr.NewStyle().Bold(true).Underline(true),
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(colorMuted),
		Success:  lr.NewStyle().Foreground(colorSuccess),
		Warning:  lr.NewStyle().Foreground(colorWarning),
		Error:    lr.NewStyle().Foreground(colorError).Bold(true),
		Info:     lr.NewStyle().Foreground(colorInfo),
		UnitPath: lr.NewStyle().Bold(true).Foreground(colorAccent),
		RuleID:   lr.NewStyle().Foreground(colorMuted),
	}
}

// Severity returns the style for a severity level.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
