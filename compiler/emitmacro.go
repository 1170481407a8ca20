package compiler

import (
	"regexp"
	"strconv"
	"strings"
)

// Emit macro substitution. A macro is a raw Python template with numbered
// placeholders referring to the argument expressions captured at the call
// site. Three whole-string rewrites run first, in this order:
//
//	$1...              comma-joined spread of arguments 1..N-1
//	{{ $0 ? A : B }}   A when argument 0 is a literal constant, else B
//	{{ ... $2 ... }}   the inner text when argument 2 exists, else nothing
//
// What remains is partitioned on bare $<digits> tokens; literal segments go
// through the printer verbatim (minus duplicated indentation after embedded
// newlines) and each token prints its argument with the same conservative
// parenthesization used for ordinary operands. An out-of-range index prints
// None so a partially specialized template degrades instead of aborting.

var (
	macroSpreadRe  = regexp.MustCompile(`\$(\d+)\.\.\.`)
	macroTernaryRe = regexp.MustCompile(`\{\{\s*\$(\d+)\s*\?\s*(.*?)\s*:\s*(.*?)\s*\}\}`)
	macroGateRe    = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	macroTokenRe   = regexp.MustCompile(`\$(\d+)`)
)

func (em *Emitter) writeEmit(e *Emit) {
	em.printer.AddLocation(e.Loc)
	macro := e.Macro
	argc := len(e.Args)

	// $i... forwards a variable-length tail of the argument list.
	macro = macroSpreadRe.ReplaceAllStringFunc(macro, func(m string) string {
		sub := macroSpreadRe.FindStringSubmatch(m)
		start, _ := strconv.Atoi(sub[1])
		parts := make([]string, 0, argc)
		for i := start; i < argc; i++ {
			parts = append(parts, "$"+strconv.Itoa(i))
		}
		return strings.Join(parts, ", ")
	})

	// {{ $i ? A : B }} resolves a compile-time-known-value conditional.
	macro = macroTernaryRe.ReplaceAllStringFunc(macro, func(m string) string {
		sub := macroTernaryRe.FindStringSubmatch(m)
		index, _ := strconv.Atoi(sub[1])
		if index < argc && isLiteral(e.Args[index]) {
			return sub[2]
		}
		return sub[3]
	})

	// {{ ... $i ... }} keeps its inner text only when argument i exists.
	macro = macroGateRe.ReplaceAllStringFunc(macro, func(m string) string {
		inner := macroGateRe.FindStringSubmatch(m)[1]
		if sub := macroTokenRe.FindStringSubmatch(inner); sub != nil {
			index, _ := strconv.Atoi(sub[1])
			if index < argc {
				return inner
			}
		}
		return ""
	})

	// Partition into literal segments and $i tokens.
	last := 0
	for _, tok := range macroTokenRe.FindAllStringSubmatchIndex(macro, -1) {
		em.writeMacroText(macro[last:tok[0]])
		index, _ := strconv.Atoi(macro[tok[2]:tok[3]])
		if index < argc {
			em.writeOperand(e.Args[index])
		} else {
			em.printer.Print("None", nil)
		}
		last = tok[1]
	}
	em.writeMacroText(macro[last:])
}

// writeMacroText re-flows raw template text through the printer. Indentation
// baked into the template is dropped on fresh lines so the printer's own
// indentation is applied exactly once.
func (em *Emitter) writeMacroText(text string) {
	if text == "" {
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			em.printer.Newline()
		}
		if em.printer.Column() == 0 {
			line = strings.TrimLeft(line, " \t")
		}
		if line != "" {
			em.printer.Print(line, nil)
		}
	}
}

func isLiteral(e Expr) bool {
	_, ok := e.(*Constant)
	return ok
}
