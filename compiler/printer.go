package compiler

import (
	"context"
	"strings"
	"unicode/utf8"

	core "github.com/cannorin/Fable/core"
)

// Sink receives ordered chunks of generated source. The printer calls it only
// from Flush; chunk boundaries carry no meaning beyond ordering. A sink may
// block (network, pipe), which is why Flush takes a context.
type Sink interface {
	WriteChunk(ctx context.Context, chunk string) error
}

// Printer owns the line/column/indent bookkeeping of one compilation unit.
// It is append-only: nothing ever rewrites or seeks into emitted text, and
// column is always exactly the number of characters emitted since the last
// Newline, indentation included. One printer must never be shared between
// two printing passes.
type Printer struct {
	line       int
	column     int
	indent     int
	indentUnit string
	indentLen  int

	buf  strings.Builder
	newl string

	sink Sink
	smap SourceMapConsumer // may be nil
}

func NewPrinter(settings *core.Settings, sink Sink, smap SourceMapConsumer) *Printer {
	unit := strings.Repeat(" ", settings.IndentWidth)
	return &Printer{
		line:       1,
		column:     0,
		indent:     0,
		indentUnit: unit,
		indentLen:  settings.IndentWidth,
		newl:       settings.Newline,
		sink:       sink,
		smap:       smap,
	}
}

func (p *Printer) Line() int   { return p.line }
func (p *Printer) Column() int { return p.column }

// Print writes text at the current position. On a fresh line the indentation
// is emitted first, so a mapping recorded here points at the first character
// of text, not at column 0.
func (p *Printer) Print(text string, loc *Location) {
	if p.column == 0 {
		for i := 0; i < p.indent; i++ {
			p.buf.WriteString(p.indentUnit)
		}
		p.column = p.indent * p.indentLen
	}
	p.AddLocation(loc)
	p.buf.WriteString(text)
	p.column += utf8.RuneCountInString(text)
}

func (p *Printer) PrintLn(text string, loc *Location) {
	p.Print(text, loc)
	p.Newline()
}

func (p *Printer) Newline() {
	p.buf.WriteString(p.newl)
	p.line++
	p.column = 0
}

func (p *Printer) PushIndent() {
	p.indent++
}

func (p *Printer) PopIndent() {
	p.indent--
	if p.indent < 0 {
		p.indent = 0
	}
}

// AddLocation records a zero-width mapping at the current output position.
// On a fresh line the indentation is materialized first, so the mapping points
// at the first character about to be printed.
func (p *Printer) AddLocation(loc *Location) {
	if loc == nil || p.smap == nil {
		return
	}
	if p.column == 0 {
		for i := 0; i < p.indent; i++ {
			p.buf.WriteString(p.indentUnit)
		}
		p.column = p.indent * p.indentLen
	}
	p.smap.AddMapping(Mapping{
		OriginalLine:    loc.StartLine,
		OriginalColumn:  loc.StartColumn,
		GeneratedLine:   p.line,
		GeneratedColumn: p.column,
		Name:            loc.Name,
	})
}

// Flush hands the buffered text to the sink and clears the buffer. The caller
// must not issue further prints until Flush returns; buffer and bookkeeping
// are exclusively owned by one in-flight pass.
func (p *Printer) Flush(ctx context.Context) error {
	if p.buf.Len() == 0 {
		return nil
	}
	chunk := p.buf.String()
	p.buf.Reset()
	return p.sink.WriteChunk(ctx, chunk)
}

// Discard drops any buffered text without writing it. Used on teardown after
// a fatal failure so a broken declaration never reaches the sink.
func (p *Printer) Discard() {
	p.buf.Reset()
}
