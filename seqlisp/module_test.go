package seqlisp

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/seq/configs"
	"github.com/reusee/seq/modes"
)

func TestModule_NewEngine(t *testing.T) {
	loader := configs.NewLoader(nil, "")
	dscope.New(
		new(Module),
		&loader,
		modes.ForTest(t),
	).Call(func(
		newEngine NewEngine,
	) {
		vm := newEngine()
		res, err := Exec(vm, "(+ 1 2)")
		if err != nil {
			t.Fatal(err)
		}
		if res.Num != 3 {
			t.Fatalf("expected 3, got %v", res.Num)
		}
		// test mode collects aggressively
		if vm.GC.Threshold != 256 {
			t.Fatalf("unexpected test-mode threshold: %d", vm.GC.Threshold)
		}
	})
}
