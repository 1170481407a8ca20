package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cannorin/Fable/compiler"
	core "github.com/cannorin/Fable/core"
)

// bufferSink collects flushed chunks in order so the finished unit can be
// compared against the file already on disk before writing.
type bufferSink struct {
	buf strings.Builder
}

func (s *bufferSink) WriteChunk(_ context.Context, chunk string) error {
	s.buf.WriteString(chunk)
	return nil
}

// rewriteModulePath maps a front-end module reference onto the Python module
// path of its generated counterpart: "./util/Strings.fs" -> "util.Strings".
func rewriteModulePath(path string) string {
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, ".fs")
	return strings.ReplaceAll(path, "/", ".")
}

// sampleUnit is a built-in compilation unit used until the front end is wired
// up, so the whole pipeline can be exercised end to end from the command line.
func sampleUnit() *compiler.Module {
	at := func(line, col int) *compiler.Location {
		return &compiler.Location{StartLine: line, StartColumn: col, EndLine: line, EndColumn: col}
	}

	classify := &compiler.FunctionDef{
		Name:   "classify",
		Params: []compiler.Param{{Name: "n", Annotation: compiler.NewName("int")}},
		Body: []compiler.Stmt{
			&compiler.If{
				Test: &compiler.Compare{
					Left:  compiler.NewNameAt("n", at(4, 7)),
					Op:    compiler.CmpLt,
					Right: compiler.IntConst(0),
				},
				Body: []compiler.Stmt{
					&compiler.Return{Value: compiler.StrConst("negative")},
				},
				Orelse: []compiler.Stmt{
					&compiler.If{
						Test: &compiler.Compare{
							Left:  compiler.NewNameAt("n", at(6, 9)),
							Op:    compiler.CmpEq,
							Right: compiler.IntConst(0),
						},
						Body: []compiler.Stmt{
							&compiler.Return{Value: compiler.StrConst("zero")},
						},
						Orelse: []compiler.Stmt{
							&compiler.Return{Value: compiler.StrConst("positive")},
						},
					},
				},
			},
		},
		Returns: compiler.NewName("str"),
	}
	classify.SetLocation(at(3, 0))

	greeting := &compiler.Assign{
		Targets: []compiler.Expr{compiler.NewNameAt("greeting", at(11, 0))},
		Value:   compiler.StrConst("hello"),
	}

	return &compiler.Module{
		Body: []compiler.Stmt{
			&compiler.ImportFrom{
				Module: "./util/Strings.fs",
				Names:  []compiler.Alias{{Name: "format"}},
			},
			classify,
			greeting,
		},
	}
}

func readersEqual(a, b io.Reader) bool {
	bufA := make([]byte, 1024)
	bufB := make([]byte, 1024)
	for {
		nA, errA := io.ReadFull(a, bufA)
		nB, _ := io.ReadFull(b, bufB)
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false
		}
		if errA != nil {
			return true
		}
	}
}

func writeFileIfChanged(path string, contents string) {
	byteContents := []byte(contents)
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if readersEqual(f, bytes.NewReader(byteContents)) {
			return
		}
	}
	os.WriteFile(path, byteContents, 0644)
}

func main() {
	settings := core.NewSettingsFromEnv()
	if len(os.Args) > 1 {
		settings.OutputPrefix = os.Args[1]
	}
	if settings.OutputPrefix == "" {
		fmt.Println("usage: fable <output_prefix>")
		os.Exit(1)
	}

	module := sampleUnit()

	sink := &bufferSink{}
	smap := compiler.NewSourceMapBuilder(settings.OutputPrefix+".py", settings.OutputPrefix+".fs")
	diags, err := compiler.Compile(context.Background(), settings, module, sink, smap, rewriteModulePath)

	if s := diags.String(); s != "" {
		fmt.Fprint(os.Stderr, s)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mapJSON, merr := json.Marshal(smap)
	if merr != nil {
		fmt.Fprintln(os.Stderr, merr)
		os.Exit(1)
	}

	writeFileIfChanged(settings.OutputPrefix+".py", sink.buf.String())
	writeFileIfChanged(settings.OutputPrefix+".py.map", string(mapJSON))
}
