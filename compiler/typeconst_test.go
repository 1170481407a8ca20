package compiler

import (
	"testing"
)

func buildConst(t *testing.T, typ Type, value interface{}) (string, *Diagnostics) {
	t.Helper()
	diags := NewDiagnostics()
	e := NewExprBuilder(diags).MakeTypeConst(typ, value, nil)
	got, _ := renderExpr(t, e)
	return got, diags
}

func buildTest(t *testing.T, typ Type, subject Expr) (string, *Diagnostics) {
	t.Helper()
	diags := NewDiagnostics()
	e := NewExprBuilder(diags).MakeTypeTest(typ, subject, nil)
	got, _ := renderExpr(t, e)
	return got, diags
}

func expectConst(t *testing.T, want string, typ Type, value interface{}) {
	t.Helper()
	got, diags := buildConst(t, typ, value)
	if diags.Errored() {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMakeTypeConstScalars(t *testing.T) {
	expectConst(t, "None", Type{Kind: TypeUnit}, nil)
	expectConst(t, "True", Type{Kind: TypeBool}, true)
	expectConst(t, `"A"`, Type{Kind: TypeChar}, 'A')
	expectConst(t, `"hi"`, Type{Kind: TypeString}, "hi")
	expectConst(t, "200", Type{Kind: TypeUInt8}, uint8(200))
	expectConst(t, "-3", Type{Kind: TypeInt32}, int32(-3))
	expectConst(t, "2.5", Type{Kind: TypeFloat64}, 2.5)
}

func TestMakeTypeConstInt64Limbs(t *testing.T) {
	expectConst(t, "Long(42.0, 0.0, False)", Type{Kind: TypeInt64}, int64(42))
	expectConst(t, "Long(0.0, 1.0, False)", Type{Kind: TypeInt64}, int64(1)<<32)
	expectConst(t, "Long(7.0, 0.0, True)", Type{Kind: TypeUInt64}, uint64(7))
}

func TestMakeTypeConstFloat32Fround(t *testing.T) {
	expectConst(t, "fround(1.5)", Type{Kind: TypeFloat32}, float32(1.5))
}

func TestMakeTypeConstDecimalDowncast(t *testing.T) {
	expectConst(t, "2.5", Type{Kind: TypeDecimal}, "2.5")
	expectConst(t, "3.0", Type{Kind: TypeDecimal}, 3.0)
}

func TestMakeTypeConstEnum(t *testing.T) {
	expectConst(t, "Color(2)", Type{Kind: TypeEnum, Name: "Color"}, 2)
}

func TestMakeTypeConstByteBuffer(t *testing.T) {
	expectConst(t, "[1, 2, 3]",
		Type{Kind: TypeArray, Elem: &Type{Kind: TypeUInt8}}, []byte{1, 2, 3})
	expectConst(t, "[-1, 300]",
		Type{Kind: TypeArray, Elem: &Type{Kind: TypeInt16}}, []int16{-1, 300})
}

func TestMakeTypeConstUnrecognizedPairing(t *testing.T) {
	got, diags := buildConst(t, Type{Kind: TypeBool}, "not a bool")
	if got != "None" {
		t.Fatalf("expected None placeholder, got %q", got)
	}
	if !diags.Errored() {
		t.Fatal("expected an error diagnostic")
	}
}

func TestMakeTypeTestPrimitives(t *testing.T) {
	x := NewName("x")

	got, _ := buildTest(t, Type{Kind: TypeBool}, x)
	if want := `(typeof(x)) == "boolean"`; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got, _ = buildTest(t, Type{Kind: TypeString}, x)
	if want := `(typeof(x)) == "string"`; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got, _ = buildTest(t, Type{Kind: TypeInt32}, x)
	if want := `(typeof(x)) == "number"`; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMakeTypeTestEmulatedNumerics(t *testing.T) {
	x := NewName("x")

	got, _ := buildTest(t, Type{Kind: TypeInt64}, x)
	if want := "isinstance(x, Long)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got, _ = buildTest(t, Type{Kind: TypeDecimal}, x)
	if want := "isinstance(x, Decimal)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got, _ = buildTest(t, Type{Kind: TypeBigInt}, x)
	if want := "isinstance(x, BigInteger)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMakeTypeTestSequencesAndUnit(t *testing.T) {
	x := NewName("x")

	got, _ := buildTest(t, Type{Kind: TypeList}, x)
	if want := "isArrayLike(x)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	got, _ = buildTest(t, Type{Kind: TypeUnit}, x)
	if want := "x is None"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMakeTypeTestDeclaredTypeWarns(t *testing.T) {
	got, diags := buildTest(t, Type{Kind: TypeDeclared, Name: "MyRecord"}, NewName("x"))
	if got != "None" {
		t.Fatalf("expected None placeholder, got %q", got)
	}
	if diags.Errored() {
		t.Fatalf("declared-type test must warn, not error:\n%s", diags)
	}
	if len(diags.All()) != 1 || diags.All()[0].Severity != SeverityWarning {
		t.Fatalf("expected exactly one warning, got:\n%s", diags)
	}
}
