package seqlisp

import (
	"strings"
	"testing"

	"github.com/reusee/seq/seqvm"
)

// structurally compares expression trees, the equality read-back
// round trips are checked against
func astEqual(a, b seqvm.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case seqvm.KindNil:
		return true
	case seqvm.KindNumber:
		return a.Num == b.Num
	case seqvm.KindSymbol:
		return a.Sym == b.Sym
	case seqvm.KindString:
		return string(a.Heap.(*seqvm.String).Bytes) == string(b.Heap.(*seqvm.String).Bytes)
	case seqvm.KindList:
		ai := a.Heap.(*seqvm.List).Items
		bi := b.Heap.(*seqvm.List).Items
		if len(ai) != len(bi) {
			return false
		}
		for i := range ai {
			if !astEqual(ai[i], bi[i]) {
				return false
			}
		}
		return true
	case seqvm.KindObjectLiteral:
		ae := a.Lit.Entries
		be := b.Lit.Entries
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if ae[i].Key != be[i].Key || ae[i].Spread != be[i].Spread {
				return false
			}
			if !astEqual(ae[i].Expr, be[i].Expr) {
				return false
			}
		}
		return true
	}
	return false
}

func str(s string) seqvm.Value {
	return (&seqvm.String{Bytes: []byte(s)}).Value()
}

func list(items ...seqvm.Value) seqvm.Value {
	return (&seqvm.List{Items: items}).Value()
}

func TestPrint_RoundTrip(t *testing.T) {
	values := []seqvm.Value{
		seqvm.NumberValue(0),
		seqvm.NumberValue(3),
		seqvm.NumberValue(-2.5),
		seqvm.NumberValue(0.125),
		seqvm.SymbolValue("transpose"),
		seqvm.SymbolValue("+"),
		str("hello"),
		str("quote \" slash \\ newline \n tab \t"),
		list(),
		list(seqvm.NumberValue(1), seqvm.SymbolValue("a"), str("s")),
		list(seqvm.NumberValue(1), list(seqvm.NumberValue(2), seqvm.NumberValue(3))),
		(&seqvm.ObjectLiteral{Entries: []seqvm.ObjectEntry{
			{Key: "stepNumber", Expr: seqvm.NumberValue(0)},
			{Expr: seqvm.SymbolValue("step"), Spread: true},
			{Key: "time", Expr: seqvm.NumberValue(123)},
		}}).Value(),
	}
	for _, v := range values {
		printed := Print(v)
		back, err := NewReader(strings.NewReader(printed)).Read()
		if err != nil {
			t.Fatalf("%s: read back failed: %v", printed, err)
		}
		if !astEqual(v, back) {
			t.Fatalf("round trip changed %s into %s", printed, Print(back))
		}
	}
}

func TestPrint_Nil(t *testing.T) {
	// nil prints as the name the global environment binds to nil
	if got := Print(seqvm.Nil); got != "nil" {
		t.Fatalf("expected nil, got %q", got)
	}
	vm := newEngine(t)
	res := eval(t, vm, Print(seqvm.Nil))
	if res.Kind != seqvm.KindNil {
		t.Fatalf("printed nil should evaluate to nil, got %v", res.Kind)
	}
}

func TestPrint_ConsChain(t *testing.T) {
	vm := newEngine(t)
	res := eval(t, vm, "(list 1 2 3)")
	if got := Print(res); got != "(1 2 3)" {
		t.Fatalf("expected (1 2 3), got %q", got)
	}
	res = eval(t, vm, "(cons 1 2)")
	if got := Print(res); got != "(1 . 2)" {
		t.Fatalf("expected (1 . 2), got %q", got)
	}
}

func TestPrint_VectorReadsBack(t *testing.T) {
	vm := newEngine(t)
	res := eval(t, vm, "(# 1 2.5 3)")
	printed := Print(res)
	if printed != "(# 1 2.5 3)" {
		t.Fatalf("unexpected vector print: %q", printed)
	}
	back := eval(t, vm, printed)
	if back.Kind != seqvm.KindVector {
		t.Fatalf("vector print should evaluate back to a vector, got %v", back.Kind)
	}
	if floats := back.Heap.(*seqvm.Vector).Floats; floats[1] != 2.5 {
		t.Fatalf("unexpected read back: %v", floats)
	}
}

func TestPrint_Object(t *testing.T) {
	vm := newEngine(t)
	res := eval(t, vm, "{ gate 0.5 }")
	if got := Print(res); got != "{gate 0.5}" {
		t.Fatalf("unexpected object print: %q", got)
	}
}

func TestPrint_Opaque(t *testing.T) {
	vm := newEngine(t)
	res := eval(t, vm, "(lambda (x) x)")
	if got := Print(res); got != "#<closure>" {
		t.Fatalf("unexpected closure print: %q", got)
	}
	res = eval(t, vm, "cons")
	if got := Print(res); got != "#<native cons>" {
		t.Fatalf("unexpected native print: %q", got)
	}
}
