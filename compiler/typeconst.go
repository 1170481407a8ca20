package compiler

import (
	"math/big"
	"strconv"
)

// Semantic types of the source language, as far as literal construction and
// runtime type tests need to distinguish them.

type TypeKind int

const (
	TypeUnit TypeKind = iota
	TypeBool
	TypeChar
	TypeString
	TypeInt8
	TypeUInt8
	TypeInt16
	TypeUInt16
	TypeInt32
	TypeUInt32
	TypeInt64
	TypeUInt64
	TypeFloat32
	TypeFloat64
	TypeDecimal
	TypeBigInt
	TypeEnum
	TypeArray
	TypeList
	TypeTuple
	TypeDeclared
)

type Type struct {
	Kind TypeKind
	Name string // enum or declared type name
	Elem *Type  // element type for array/list
}

// Names of the runtime helpers the emitted code calls. Their implementations
// live in the runtime library, never in generated output.
const (
	helperLong        = "Long"
	helperDecimal     = "Decimal"
	helperBigInteger  = "BigInteger"
	helperFround      = "fround"
	helperTypeOf      = "typeof"
	helperIsArrayLike = "isArrayLike"
)

// ExprBuilder synthesizes AST fragments for typed literal values and runtime
// type checks. Every failure is reported to the diagnostics sink and yields a
// None placeholder, so the caller can collect all issues of a unit in one
// pass before deciding whether to halt.
type ExprBuilder struct {
	diags *Diagnostics
}

func NewExprBuilder(diags *Diagnostics) *ExprBuilder {
	return &ExprBuilder{diags: diags}
}

// MakeTypeConst maps a (semantic type, runtime value) pair to a literal or
// constructor-call expression.
//
// 64-bit integers become a two-limb Long(low, high, unsigned) call because a
// double cannot hold the full 64 bits. Decimals are down-cast to a 64-bit
// float literal (documented precision loss, not an error). 32-bit floats are
// wrapped in fround to reproduce single-precision rounding on a double-only
// target. Byte/short arrays arriving as raw buffers are rewritten into
// element-wise list literals.
func (eb *ExprBuilder) MakeTypeConst(typ Type, value interface{}, loc *Location) Expr {
	switch typ.Kind {
	case TypeUnit:
		if value == nil {
			return noneAt(loc)
		}
	case TypeBool:
		if v, ok := value.(bool); ok {
			return &Constant{expr: expr{Loc: loc}, Kind: ConstBool, Bool: v}
		}
	case TypeChar:
		switch v := value.(type) {
		case rune:
			return &Constant{expr: expr{Loc: loc}, Kind: ConstString, Str: string(v)}
		case string:
			return &Constant{expr: expr{Loc: loc}, Kind: ConstString, Str: v}
		}
	case TypeString:
		if v, ok := value.(string); ok {
			return &Constant{expr: expr{Loc: loc}, Kind: ConstString, Str: v}
		}
	case TypeInt8, TypeUInt8, TypeInt16, TypeUInt16, TypeInt32, TypeUInt32:
		if v, ok := toInt64(value); ok {
			return &Constant{expr: expr{Loc: loc}, Kind: ConstInt, Int: v}
		}
	case TypeInt64:
		if v, ok := toInt64(value); ok {
			return eb.makeLong(uint64(v), false, loc)
		}
	case TypeUInt64:
		switch v := value.(type) {
		case uint64:
			return eb.makeLong(v, true, loc)
		case uint:
			return eb.makeLong(uint64(v), true, loc)
		}
	case TypeFloat32:
		if v, ok := toFloat64(value); ok {
			return &Call{
				expr: expr{Loc: loc},
				Func: NewName(helperFround),
				Args: []Expr{FloatConst(v)},
			}
		}
	case TypeFloat64:
		if v, ok := toFloat64(value); ok {
			return &Constant{expr: expr{Loc: loc}, Kind: ConstFloat, Float: v}
		}
	case TypeDecimal:
		// Down-cast to a double literal; the target has no decimal type.
		switch v := value.(type) {
		case *big.Float:
			f, _ := v.Float64()
			return &Constant{expr: expr{Loc: loc}, Kind: ConstFloat, Float: f}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return &Constant{expr: expr{Loc: loc}, Kind: ConstFloat, Float: f}
			}
		default:
			if f, ok := toFloat64(value); ok {
				return &Constant{expr: expr{Loc: loc}, Kind: ConstFloat, Float: f}
			}
		}
	case TypeEnum:
		if v, ok := toInt64(value); ok {
			return &Call{
				expr: expr{Loc: loc},
				Func: NewName(typ.Name),
				Args: []Expr{IntConst(v)},
			}
		}
	case TypeArray:
		// Byte/short arrays can arrive as raw buffer literals instead of
		// array-construction nodes; rewrite them element-wise.
		if typ.Elem != nil {
			switch typ.Elem.Kind {
			case TypeInt8, TypeUInt8:
				if buf, ok := value.([]byte); ok {
					elts := make([]Expr, len(buf))
					for i, b := range buf {
						elts[i] = IntConst(int64(b))
					}
					return &ListExpr{expr: expr{Loc: loc}, Elts: elts}
				}
			case TypeInt16, TypeUInt16:
				if buf, ok := value.([]int16); ok {
					elts := make([]Expr, len(buf))
					for i, b := range buf {
						elts[i] = IntConst(int64(b))
					}
					return &ListExpr{expr: expr{Loc: loc}, Elts: elts}
				}
			}
		}
	}

	eb.diags.Errorf(loc, "cannot create constant of type kind %d from %T value", typ.Kind, value)
	return noneAt(loc)
}

// makeLong splits a 64-bit value into two 32-bit limbs rendered as float
// literals: low = value mod 2^32, high = value >> 32.
func (eb *ExprBuilder) makeLong(bits uint64, unsigned bool, loc *Location) Expr {
	low := float64(uint32(bits))
	high := float64(uint32(bits >> 32))
	return &Call{
		expr: expr{Loc: loc},
		Func: NewName(helperLong),
		Args: []Expr{FloatConst(low), FloatConst(high), BoolConst(unsigned)},
	}
}

// MakeTypeTest produces a best-effort runtime type check for expr.
//
// Primitives compare a typeof helper against a fixed string; the emulated
// numeric types test against their runtime helper class; sequence types use
// the shared is-array-like predicate. Declared record/union/class types have
// no cheap structural test, so they report a diagnostic and yield a None
// placeholder instead of aborting the unit.
func (eb *ExprBuilder) MakeTypeTest(typ Type, subject Expr, loc *Location) Expr {
	switch typ.Kind {
	case TypeUnit:
		return &Compare{expr: expr{Loc: loc}, Left: subject, Op: CmpIs, Right: NoneConst()}
	case TypeBool:
		return eb.typeofTest(subject, "boolean", loc)
	case TypeChar, TypeString:
		return eb.typeofTest(subject, "string", loc)
	case TypeInt8, TypeUInt8, TypeInt16, TypeUInt16, TypeInt32, TypeUInt32,
		TypeFloat32, TypeFloat64:
		return eb.typeofTest(subject, "number", loc)
	case TypeInt64, TypeUInt64:
		return eb.instanceTest(subject, helperLong, loc)
	case TypeDecimal:
		return eb.instanceTest(subject, helperDecimal, loc)
	case TypeBigInt:
		return eb.instanceTest(subject, helperBigInteger, loc)
	case TypeArray, TypeList, TypeTuple:
		return &Call{
			expr: expr{Loc: loc},
			Func: NewName(helperIsArrayLike),
			Args: []Expr{subject},
		}
	case TypeEnum:
		// Enums are plain tagged numbers at runtime.
		return eb.typeofTest(subject, "number", loc)
	}

	eb.diags.Warnf(loc, "cannot type test %q: structural checks on declared types are not supported", typ.Name)
	return noneAt(loc)
}

func (eb *ExprBuilder) typeofTest(subject Expr, expected string, loc *Location) Expr {
	return &Compare{
		expr: expr{Loc: loc},
		Left: &Call{Func: NewName(helperTypeOf), Args: []Expr{subject}},
		Op:   CmpEq,
		Right: StrConst(expected),
	}
}

func (eb *ExprBuilder) instanceTest(subject Expr, class string, loc *Location) Expr {
	return &Call{
		expr: expr{Loc: loc},
		Func: NewName("isinstance"),
		Args: []Expr{subject, NewName(class)},
	}
}

func noneAt(loc *Location) Expr {
	return &Constant{expr: expr{Loc: loc}, Kind: ConstNone}
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
