package simfile

import "fmt"

// Severity distinguishes a recoverable warning from a discard-worthy
// error.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic records one recoverable parse/emit event: what kind of problem
// it was, where it happened, and enough context to act on it. The core
// library never logs directly (it has no log.* calls) — every "log and
// continue" site appends a Diagnostic instead, and callers (the cmd/*
// binaries) drain Song.Diagnostics and log it themselves.
type Diagnostic struct {
	Severity  Severity
	Component string // e.g. "msd", "dispatch", "notegrid", "timing"
	Chart     string // chart identifier ("" for song-scoped diagnostics)
	Tag       string // the MSD tag involved, if any
	Message   string
}

func (d Diagnostic) String() string {
	loc := d.Component
	if d.Chart != "" {
		loc += "/" + d.Chart
	}
	if d.Tag != "" {
		loc += "#" + d.Tag
	}
	return fmt.Sprintf("[%s] %s: %s", d.Severity, loc, d.Message)
}

// Diagnostics is an append-only collection attached to a Song.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(sev Severity, component, chart, tag, format string, args ...any) {
	*d = append(*d, Diagnostic{
		Severity:  sev,
		Component: component,
		Chart:     chart,
		Tag:       tag,
		Message:   fmt.Sprintf(format, args...),
	})
}

func (d *Diagnostics) warnf(component, chart, tag, format string, args ...any) {
	d.add(SeverityWarning, component, chart, tag, format, args...)
}

func (d *Diagnostics) errorf(component, chart, tag, format string, args ...any) {
	d.add(SeverityError, component, chart, tag, format, args...)
}

// HasErrors reports whether any diagnostic at SeverityError was recorded.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}
