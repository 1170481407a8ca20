package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ImportRewriter translates a logical module reference into the output
// ecosystem's import-path convention. The emitter prints its result verbatim.
type ImportRewriter func(path string) string

// Emitter converts AST nodes into printer operations. One case per node
// variant; a shape missing from the dispatch is a translation failure
// reported to the diagnostics sink, never a silent fallthrough.
type Emitter struct {
	printer       *Printer
	diags         *Diagnostics
	builder       *ExprBuilder
	rewriteImport ImportRewriter
}

func NewEmitter(printer *Printer, diags *Diagnostics, rewrite ImportRewriter) *Emitter {
	if rewrite == nil {
		rewrite = func(path string) string { return path }
	}
	return &Emitter{
		printer:       printer,
		diags:         diags,
		builder:       NewExprBuilder(diags),
		rewriteImport: rewrite,
	}
}

func (em *Emitter) Diagnostics() *Diagnostics { return em.diags }
func (em *Emitter) Builder() *ExprBuilder     { return em.builder }

// WriteTypeConst synthesizes the literal for a typed value and prints it.
func (em *Emitter) WriteTypeConst(typ Type, value interface{}, loc *Location) {
	em.WriteExpr(em.builder.MakeTypeConst(typ, value, loc))
}

// WriteTypeTest synthesizes a runtime type check for subject and prints it.
func (em *Emitter) WriteTypeTest(typ Type, subject Expr, loc *Location) {
	em.WriteExpr(em.builder.MakeTypeTest(typ, subject, loc))
}

//
// Statements
//

func (em *Emitter) WriteStmt(s Stmt) {
	switch s := s.(type) {
	case *FunctionDef:
		em.writeFunctionDef(s)
	case *ClassDef:
		em.writeClassDef(s)
	case *If:
		em.writeIf(s, false)
	case *For:
		em.writeFor(s)
	case *While:
		em.writeWhile(s)
	case *Try:
		em.writeTry(s)
	case *Import:
		em.writeImport(s)
	case *ImportFrom:
		em.writeImportFrom(s)
	case *Assign:
		em.writeAssign(s)
	case *Return:
		em.writeReturn(s)
	case *Raise:
		em.writeRaise(s)
	case *ExprStmt:
		em.WriteExpr(s.Value)
	case *Pass:
		em.printer.Print("pass", s.Loc)
	case *Break:
		em.printer.Print("break", s.Loc)
	case *Continue:
		em.printer.Print("continue", s.Loc)
	case *Global:
		em.printer.Print("global ", s.Loc)
		em.printer.Print(strings.Join(s.Names, ", "), nil)
	case *NonLocal:
		em.printer.Print("nonlocal ", s.Loc)
		em.printer.Print(strings.Join(s.Names, ", "), nil)
	default:
		em.diags.Errorf(stmtLoc(s), "unsupported statement type %T", s)
		em.printer.Print("pass", nil)
	}
}

// writeBlock prints an indented suite: flush the current line, indent, one
// statement per line, dedent. The statement separator emits a newline only
// when the statement did not already end its own line. The trailing newline
// is suppressed when the caller manages it itself (function and class bodies,
// non-final clauses of compound statements).
func (em *Emitter) writeBlock(body []Stmt, skipNewlineAtEnd bool) {
	em.printer.Print("", nil)
	em.printer.Newline()
	em.printer.PushIndent()
	if len(body) == 0 {
		// An empty suite is still a syntax error without a pass.
		em.printer.PrintLn("pass", nil)
	}
	for _, s := range body {
		em.WriteStmt(s)
		if em.printer.Column() > 0 {
			em.printer.Newline()
		}
	}
	em.printer.PopIndent()
	if !skipNewlineAtEnd {
		em.printer.Newline()
	}
}

func (em *Emitter) writeDecorators(decorators []Expr) {
	for _, dec := range decorators {
		em.printer.Print("@", nil)
		em.WriteExpr(dec)
		em.printer.Newline()
	}
}

func (em *Emitter) writeParams(params []Param) {
	for i, param := range params {
		if i > 0 {
			em.printer.Print(", ", nil)
		}
		em.printer.Print(param.Name, nil)
		if param.Annotation != nil {
			em.printer.Print(": ", nil)
			em.WriteExpr(param.Annotation)
		}
		if param.Default != nil {
			em.printer.Print("=", nil)
			em.WriteExpr(param.Default)
		}
	}
}

func (em *Emitter) writeFunctionDef(s *FunctionDef) {
	em.writeDecorators(s.Decorators)
	em.printer.Print("def ", s.Loc)
	em.printer.Print(s.Name, nil)
	em.printer.Print("(", nil)
	em.writeParams(s.Params)
	em.printer.Print(")", nil)
	if s.Returns != nil {
		em.printer.Print(" -> ", nil)
		em.WriteExpr(s.Returns)
	}
	em.printer.Print(":", nil)
	em.writeBlock(s.Body, true)
}

func (em *Emitter) writeClassDef(s *ClassDef) {
	em.writeDecorators(s.Decorators)
	em.printer.Print("class ", s.Loc)
	em.printer.Print(s.Name, nil)
	if len(s.Bases) > 0 {
		em.printer.Print("(", nil)
		for i, base := range s.Bases {
			if i > 0 {
				em.printer.Print(", ", nil)
			}
			em.WriteExpr(base)
		}
		em.printer.Print(")", nil)
	}
	em.printer.Print(":", nil)
	em.writeBlock(s.Body, true)
}

// writeIf folds a singleton else-if into elif and drops an else branch that
// is empty or a lone pass. Purely textual; the tree is not transformed.
func (em *Emitter) writeIf(s *If, asElif bool) {
	if asElif {
		em.printer.Print("elif ", s.Loc)
	} else {
		em.printer.Print("if ", s.Loc)
	}
	em.WriteExpr(s.Test)
	em.printer.Print(":", nil)
	em.writeBlock(s.Body, true)

	orelse := s.Orelse
	if len(orelse) == 0 || (len(orelse) == 1 && isPass(orelse[0])) {
		em.printer.Newline()
		return
	}
	if len(orelse) == 1 {
		if nested, ok := orelse[0].(*If); ok {
			em.writeIf(nested, true)
			return
		}
	}
	em.printer.Print("else:", nil)
	em.writeBlock(orelse, false)
}

func isPass(s Stmt) bool {
	_, ok := s.(*Pass)
	return ok
}

func (em *Emitter) writeFor(s *For) {
	em.printer.Print("for ", s.Loc)
	em.WriteExpr(s.Target)
	em.printer.Print(" in ", nil)
	em.WriteExpr(s.Iter)
	em.printer.Print(":", nil)
	em.writeBlock(s.Body, false)
}

func (em *Emitter) writeWhile(s *While) {
	em.printer.Print("while ", s.Loc)
	em.WriteExpr(s.Test)
	em.printer.Print(":", nil)
	em.writeBlock(s.Body, false)
}

func (em *Emitter) writeTry(s *Try) {
	em.printer.Print("try:", s.Loc)
	em.writeBlock(s.Body, true)
	for _, handler := range s.Handlers {
		em.printer.Print("except", handler.Loc)
		if handler.Type != nil {
			em.printer.Print(" ", nil)
			em.WriteExpr(handler.Type)
			if handler.Name != "" {
				em.printer.Print(" as ", nil)
				em.printer.Print(handler.Name, nil)
			}
		}
		em.printer.Print(":", nil)
		em.writeBlock(handler.Body, true)
	}
	if len(s.Orelse) > 0 {
		em.printer.Print("else:", nil)
		em.writeBlock(s.Orelse, true)
	}
	if len(s.Finalbody) > 0 {
		em.printer.Print("finally:", nil)
		em.writeBlock(s.Finalbody, true)
	}
	em.printer.Newline()
}

func (em *Emitter) writeAlias(alias Alias, rewrite bool) {
	name := alias.Name
	if rewrite {
		name = em.rewriteImport(name)
	}
	em.printer.Print(name, nil)
	if alias.AsName != "" {
		em.printer.Print(" as ", nil)
		em.printer.Print(alias.AsName, nil)
	}
}

func (em *Emitter) writeAliasList(names []Alias, rewrite bool) {
	if len(names) == 1 {
		em.writeAlias(names[0], rewrite)
		return
	}
	em.printer.Print("(", nil)
	for i, alias := range names {
		if i > 0 {
			em.printer.Print(", ", nil)
		}
		em.writeAlias(alias, rewrite)
	}
	em.printer.Print(")", nil)
}

func (em *Emitter) writeImport(s *Import) {
	em.printer.Print("import ", s.Loc)
	em.writeAliasList(s.Names, true)
}

func (em *Emitter) writeImportFrom(s *ImportFrom) {
	em.printer.Print("from ", s.Loc)
	em.printer.Print(em.rewriteImport(s.Module), nil)
	em.printer.Print(" import ", nil)
	em.writeAliasList(s.Names, false)
}

func (em *Emitter) writeAssign(s *Assign) {
	em.printer.AddLocation(s.Loc)
	for _, target := range s.Targets {
		em.WriteExpr(target)
		em.printer.Print(" = ", nil)
	}
	em.WriteExpr(s.Value)
}

func (em *Emitter) writeReturn(s *Return) {
	if s.Value == nil {
		em.printer.Print("return", s.Loc)
		return
	}
	em.printer.Print("return ", s.Loc)
	em.WriteExpr(s.Value)
}

func (em *Emitter) writeRaise(s *Raise) {
	if s.Exc == nil {
		em.printer.Print("raise", s.Loc)
		return
	}
	em.printer.Print("raise ", s.Loc)
	em.WriteExpr(s.Exc)
}

//
// Expressions
//

func (em *Emitter) WriteExpr(e Expr) {
	switch e := e.(type) {
	case *Name:
		em.printer.Print(e.Id, e.Loc)
	case *Constant:
		em.printer.Print(constantString(e), e.Loc)
	case *Call:
		em.writeCall(e)
	case *Attribute:
		em.printer.AddLocation(e.Loc)
		em.writePrimary(e.Value)
		em.printer.Print(".", nil)
		em.printer.Print(e.Attr, nil)
	case *Subscript:
		em.printer.AddLocation(e.Loc)
		em.writePrimary(e.Value)
		em.printer.Print("[", nil)
		em.WriteExpr(e.Index)
		em.printer.Print("]", nil)
	case *BinOp:
		em.printer.AddLocation(e.Loc)
		em.writeOperand(e.Left)
		em.printer.Print(" "+e.Op.String()+" ", nil)
		em.writeOperand(e.Right)
	case *UnaryOp:
		em.printer.Print(e.Op.String(), e.Loc)
		em.writeOperand(e.Operand)
	case *BoolOp:
		em.printer.AddLocation(e.Loc)
		for i, value := range e.Values {
			if i > 0 {
				em.printer.Print(" "+e.Op.String()+" ", nil)
			}
			em.writeOperand(value)
		}
	case *Compare:
		em.printer.AddLocation(e.Loc)
		em.writeOperand(e.Left)
		em.printer.Print(" "+e.Op.String()+" ", nil)
		em.writeOperand(e.Right)
	case *IfExp:
		em.printer.AddLocation(e.Loc)
		em.writeOperand(e.Body)
		em.printer.Print(" if ", nil)
		em.writeOperand(e.Test)
		em.printer.Print(" else ", nil)
		em.writeOperand(e.Orelse)
	case *Lambda:
		em.printer.Print("lambda", e.Loc)
		if len(e.Params) > 0 {
			em.printer.Print(" ", nil)
			em.writeParams(e.Params)
		}
		em.printer.Print(": ", nil)
		em.WriteExpr(e.Body)
	case *TupleExpr:
		em.writeTuple(e)
	case *ListExpr:
		em.printer.Print("[", e.Loc)
		em.writeCommaList(e.Elts)
		em.printer.Print("]", nil)
	case *SetExpr:
		if len(e.Elts) == 0 {
			// {} would be a dict.
			em.printer.Print("set()", e.Loc)
			return
		}
		em.printer.Print("{", e.Loc)
		em.writeCommaList(e.Elts)
		em.printer.Print("}", nil)
	case *DictExpr:
		em.writeDict(e)
	case *NamedExpr:
		em.printer.Print("(", e.Loc)
		em.WriteExpr(e.Target)
		em.printer.Print(" := ", nil)
		em.WriteExpr(e.Value)
		em.printer.Print(")", nil)
	case *Emit:
		em.writeEmit(e)
	case *Unsupported:
		em.diags.Errorf(e.Loc, "unsupported expression: %s", e.Reason)
		em.printer.Print("None", e.Loc)
	default:
		em.diags.Errorf(exprLoc(e), "unsupported expression type %T", e)
		em.printer.Print("None", nil)
	}
}

// writeOperand prints an operand of a binary/unary/boolean/comparison
// operator. Anything that is not a bare constant or identifier is wrapped in
// parentheses; over-parenthesizing a call or attribute access is harmless,
// omitting parentheses never is.
func (em *Emitter) writeOperand(e Expr) {
	switch e.(type) {
	case *Constant, *Name:
		em.WriteExpr(e)
	default:
		em.printer.Print("(", nil)
		em.WriteExpr(e)
		em.printer.Print(")", nil)
	}
}

// writePrimary prints the receiver of an attribute access, subscript or
// call. Chained primaries stay bare, everything else gets parentheses
// (e.g. (1).real, (lambda x: x)(1)).
func (em *Emitter) writePrimary(e Expr) {
	switch e.(type) {
	case *Name, *Attribute, *Subscript, *Call:
		em.WriteExpr(e)
	default:
		em.printer.Print("(", nil)
		em.WriteExpr(e)
		em.printer.Print(")", nil)
	}
}

func (em *Emitter) writeCall(e *Call) {
	em.printer.AddLocation(e.Loc)
	em.writePrimary(e.Func)
	em.printer.Print("(", nil)
	for i, arg := range e.Args {
		if i > 0 {
			em.printer.Print(", ", nil)
		}
		em.WriteExpr(arg)
	}
	for i, kw := range e.Keywords {
		if i > 0 || len(e.Args) > 0 {
			em.printer.Print(", ", nil)
		}
		em.printer.Print(kw.Name, nil)
		em.printer.Print("=", nil)
		em.WriteExpr(kw.Value)
	}
	em.printer.Print(")", nil)
}

func (em *Emitter) writeCommaList(elts []Expr) {
	for i, elt := range elts {
		if i > 0 {
			em.printer.Print(", ", nil)
		}
		em.WriteExpr(elt)
	}
}

// writeTuple keeps the trailing comma of a one-element tuple; without it
// (x) would be a parenthesized expression, not a tuple.
func (em *Emitter) writeTuple(e *TupleExpr) {
	em.printer.Print("(", e.Loc)
	em.writeCommaList(e.Elts)
	if len(e.Elts) == 1 {
		em.printer.Print(",", nil)
	}
	em.printer.Print(")", nil)
}

// writeDict renders one key/value pair per line, comma-separated, with no
// trailing comma before the closing brace.
func (em *Emitter) writeDict(e *DictExpr) {
	if len(e.Keys) == 0 {
		em.printer.Print("{}", e.Loc)
		return
	}
	em.printer.Print("{", e.Loc)
	em.printer.Newline()
	em.printer.PushIndent()
	for i := range e.Keys {
		em.printer.Print("", nil)
		em.WriteExpr(e.Keys[i])
		em.printer.Print(": ", nil)
		em.WriteExpr(e.Values[i])
		if i < len(e.Keys)-1 {
			em.printer.Print(",", nil)
		}
		em.printer.Newline()
	}
	em.printer.PopIndent()
	em.printer.Print("}", nil)
}

//
// Literal rendering
//

func constantString(c *Constant) string {
	switch c.Kind {
	case ConstNone:
		return "None"
	case ConstBool:
		if c.Bool {
			return "True"
		}
		return "False"
	case ConstString:
		return escapeString(c.Str)
	case ConstInt:
		return strconv.FormatInt(c.Int, 10)
	case ConstFloat:
		return formatFloat(c.Float)
	}
	return "None"
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return `float("nan")`
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// escapeString renders s as one double-quoted Python string literal.
// Control characters, quotes and non-ASCII code points are escaped so the
// output survives any target file encoding.
func escapeString(s string) string {
	b := &strings.Builder{}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(b, `\x%02x`, r)
			case r < 0x80:
				b.WriteRune(r)
			case r <= 0xffff:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				fmt.Fprintf(b, `\U%08x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func stmtLoc(s Stmt) *Location {
	if s == nil {
		return nil
	}
	return s.Location()
}

func exprLoc(e Expr) *Location {
	if e == nil {
		return nil
	}
	return e.Location()
}
