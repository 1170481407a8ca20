package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	core "github.com/cannorin/Fable/core"
)

// closableSink verifies the driver releases the sink on every exit path.
type closableSink struct {
	chunkSink
	closed bool
}

func (s *closableSink) Close() error {
	s.closed = true
	return nil
}

func testModule() *Module {
	return &Module{
		Body: []Stmt{
			&Import{Names: []Alias{{Name: "m1"}}},
			&Import{Names: []Alias{{Name: "m2"}}},
			&Assign{Targets: []Expr{NewName("x")}, Value: IntConst(1)},
			&Assign{Targets: []Expr{NewName("y")}, Value: IntConst(2)},
		},
	}
}

func TestDriverFlushGranularity(t *testing.T) {
	sink := &chunkSink{}
	diags, err := Compile(context.Background(), core.NewSettings(), testModule(), sink, nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if diags.Errored() {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}

	wantChunks := []string{
		"import m1\nimport m2\n",
		"\nx = 1\n",
		"\ny = 2\n",
	}
	if len(sink.chunks) != len(wantChunks) {
		t.Fatalf("expected %d chunks, got %d: %q", len(wantChunks), len(sink.chunks), sink.chunks)
	}
	for i, want := range wantChunks {
		if sink.chunks[i] != want {
			t.Fatalf("chunk %d: expected %q, got %q", i, want, sink.chunks[i])
		}
	}

	want := "import m1\nimport m2\n\nx = 1\n\ny = 2\n"
	if got := sink.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDriverNoImports(t *testing.T) {
	module := &Module{Body: []Stmt{
		&Assign{Targets: []Expr{NewName("x")}, Value: IntConst(1)},
	}}
	sink := &chunkSink{}
	if _, err := Compile(context.Background(), core.NewSettings(), module, sink, nil, nil); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := sink.String(); got != "x = 1\n" {
		t.Fatalf("expected %q, got %q", "x = 1\n", got)
	}
}

func TestDriverCancellationAtDeclarationBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &chunkSink{}
	_, err := Compile(ctx, core.NewSettings(), testModule(), sink, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// Everything flushed so far is complete, valid source.
	if got := sink.String(); got != "import m1\nimport m2\n" {
		t.Fatalf("expected only the import prefix, got %q", got)
	}
}

func brokenModule() *Module {
	return &Module{Body: []Stmt{
		&Assign{Targets: []Expr{NewName("a")}, Value: IntConst(1)},
		&ExprStmt{Value: &Unsupported{Reason: "provided value was not expected"}},
	}}
}

func TestDriverStrictAbortsUnit(t *testing.T) {
	settings := core.NewSettings()
	settings.Strict = true

	sink := &chunkSink{}
	diags, err := Compile(context.Background(), settings, brokenModule(), sink, nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "translation failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !diags.Errored() {
		t.Fatal("expected an error diagnostic")
	}

	// The broken declaration never reaches the sink.
	if got := sink.String(); got != "a = 1\n" {
		t.Fatalf("expected only the first declaration, got %q", got)
	}
}

func TestDriverLenientKeepsGoing(t *testing.T) {
	sink := &chunkSink{}
	diags, err := Compile(context.Background(), core.NewSettings(), brokenModule(), sink, nil, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !diags.Errored() {
		t.Fatal("expected an error diagnostic")
	}

	want := "a = 1\n\nNone\n"
	if got := sink.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDriverClosesSink(t *testing.T) {
	sink := &closableSink{}
	if _, err := Compile(context.Background(), core.NewSettings(), testModule(), sink, nil, nil); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !sink.closed {
		t.Fatal("expected the sink to be closed")
	}
}

func TestDriverClosesSinkOnFailure(t *testing.T) {
	settings := core.NewSettings()
	settings.Strict = true

	sink := &closableSink{}
	if _, err := Compile(context.Background(), settings, brokenModule(), sink, nil, nil); err == nil {
		t.Fatal("expected an error")
	}
	if !sink.closed {
		t.Fatal("expected the sink to be closed after a fatal failure")
	}
}

func TestSplitImports(t *testing.T) {
	// An import after the first non-import belongs to the declaration run.
	module := &Module{Body: []Stmt{
		&Import{Names: []Alias{{Name: "m"}}},
		&Assign{Targets: []Expr{NewName("x")}, Value: IntConst(1)},
		&Import{Names: []Alias{{Name: "late"}}},
	}}
	imports, decls := splitImports(module.Body)
	if len(imports) != 1 || len(decls) != 2 {
		t.Fatalf("expected 1 import and 2 declarations, got %d and %d", len(imports), len(decls))
	}
}
