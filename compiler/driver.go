package compiler

import (
	"context"
	"fmt"
	"io"

	core "github.com/cannorin/Fable/core"
)

// Driver orders the top-level statements of one compilation unit and governs
// flush granularity: the import prefix goes out as one chunk, then one chunk
// per declaration, which bounds peak buffer size and lets output stream.
type Driver struct {
	settings *core.Settings
	printer  *Printer
	em       *Emitter
}

func NewDriver(settings *core.Settings, printer *Printer, em *Emitter) *Driver {
	return &Driver{
		settings: settings,
		printer:  printer,
		em:       em,
	}
}

// PrintModule prints the whole unit. Cancellation is cooperative at
// declaration boundaries only: a cancelled context stops further
// declarations from being submitted, so the sink always holds complete,
// syntactically valid source up to the last flush. The printer buffer is
// discarded and the sink released on every exit path.
func (d *Driver) PrintModule(ctx context.Context, module *Module) error {
	defer d.teardown()

	imports, decls := splitImports(module.Body)

	for _, imp := range imports {
		d.em.WriteStmt(imp)
		if d.printer.Column() > 0 {
			d.printer.Newline()
		}
	}
	if err := d.checkStrict(); err != nil {
		return err
	}
	if err := d.printer.Flush(ctx); err != nil {
		return err
	}

	printedAny := len(imports) > 0
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return err
		}
		if printedAny {
			// Exactly one blank line before the next declaration.
			d.printer.Newline()
		}
		d.em.WriteStmt(decl)
		if d.printer.Column() > 0 {
			d.printer.Newline()
		}
		if err := d.checkStrict(); err != nil {
			return err
		}
		if err := d.printer.Flush(ctx); err != nil {
			return err
		}
		printedAny = true
	}
	return nil
}

// checkStrict turns the first error-severity diagnostic into a fatal failure
// under the strict policy. The offending declaration is discarded unflushed;
// the sink never sees a broken fragment.
func (d *Driver) checkStrict() error {
	if d.settings.Strict && d.em.Diagnostics().Errored() {
		d.printer.Discard()
		return fmt.Errorf("translation failed:\n%s", d.em.Diagnostics())
	}
	return nil
}

func (d *Driver) teardown() {
	d.printer.Discard()
	if closer, ok := d.printer.sink.(io.Closer); ok {
		closer.Close()
	}
}

// splitImports partitions the statement list at the first non-import.
func splitImports(body []Stmt) (imports []Stmt, decls []Stmt) {
	for i, s := range body {
		switch s.(type) {
		case *Import, *ImportFrom:
		default:
			return body[:i], body[i:]
		}
	}
	return body, nil
}

// Compile prints one compilation unit to sink, feeding smap with mappings.
// It returns the unit's collected diagnostics alongside any fatal error.
// Independent units may be compiled concurrently; nothing is shared between
// calls.
func Compile(ctx context.Context, settings *core.Settings, module *Module, sink Sink, smap SourceMapConsumer, rewrite ImportRewriter) (*Diagnostics, error) {
	diags := NewDiagnostics()
	printer := NewPrinter(settings, sink, smap)
	em := NewEmitter(printer, diags, rewrite)
	err := NewDriver(settings, printer, em).PrintModule(ctx, module)
	return diags, err
}
