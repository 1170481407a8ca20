package compiler

import (
	"fmt"
	"strings"
)

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

type Diagnostic struct {
	Severity Severity
	Line     int // 1-based, 0 when the node had no location
	Column   int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Diagnostics is the collector every fallible operation of a pass reports to.
// One collector per compilation unit, threaded explicitly; the caller drains
// it after the pass and decides whether to halt.
type Diagnostics struct {
	list      []Diagnostic
	numErrors int
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{list: make([]Diagnostic, 0, 4)}
}

func (ds *Diagnostics) add(severity Severity, loc *Location, format string, args ...interface{}) {
	d := Diagnostic{Severity: severity, Message: fmt.Sprintf(format, args...)}
	if loc != nil {
		d.Line = loc.StartLine
		d.Column = loc.StartColumn
	}
	if severity == SeverityError {
		ds.numErrors++
	}
	ds.list = append(ds.list, d)
}

func (ds *Diagnostics) Errorf(loc *Location, format string, args ...interface{}) {
	ds.add(SeverityError, loc, format, args...)
}

func (ds *Diagnostics) Warnf(loc *Location, format string, args ...interface{}) {
	ds.add(SeverityWarning, loc, format, args...)
}

func (ds *Diagnostics) Errored() bool {
	return ds.numErrors > 0
}

func (ds *Diagnostics) All() []Diagnostic {
	return ds.list
}

func (ds *Diagnostics) String() string {
	b := &strings.Builder{}
	for _, d := range ds.list {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}
