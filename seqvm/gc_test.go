package seqvm

import "testing"

func TestGC_SweepUnreachable(t *testing.T) {
	vm := NewVM(nil)
	tracked := vm.GC.Stats().Tracked // the global env

	kept := vm.GC.NewCons(NumberValue(1), Nil)
	vm.Global.Def("kept", kept.Value())
	garbage := vm.GC.NewCons(NumberValue(2), Nil)

	stats := vm.Collect()
	if stats.Tracked != tracked+1 {
		t.Fatalf("expected %d tracked, got %d", tracked+1, stats.Tracked)
	}
	if stats.TotalFreed != 1 {
		t.Fatalf("expected 1 freed, got %d", stats.TotalFreed)
	}
	if kept.Car.Num != 1 {
		t.Fatalf("reachable cons mutated: %v", kept.Car)
	}
	// freed objects have their interior cleared
	if garbage.Car.Kind != KindNil {
		t.Fatalf("freed cons not cleared: %v", garbage.Car)
	}
}

func TestGC_ReachableChainSurvives(t *testing.T) {
	vm := NewVM(nil)
	chain := Nil
	for i := range 10 {
		chain = vm.GC.NewCons(NumberValue(float64(i)), chain).Value()
	}
	vm.Global.Def("chain", chain)

	vm.Collect()
	vm.Collect() // marks must be reset between cycles

	count := 0
	for v := chain; v.Kind == KindCons; v = v.Heap.(*Cons).Cdr {
		count++
	}
	if count != 10 {
		t.Fatalf("chain broken after collect: %d cells", count)
	}
}

func TestGC_CycleTerminates(t *testing.T) {
	vm := NewVM(nil)
	// defun-style self reference: closure env binds the closure itself
	env := vm.GC.NewEnv(vm.Global)
	closure := vm.GC.NewClosure(nil, nil, nil, env)
	env.Def("self", closure.Value())
	vm.Global.Def("f", closure.Value())

	stats := vm.Collect()
	if closure.Env != env {
		t.Fatalf("reachable closure cleared")
	}
	if _, ok := env.Get("self"); !ok {
		t.Fatalf("cycle member freed")
	}

	// drop the root, the whole cycle goes
	delete(vm.Global.Vars, "f")
	after := vm.Collect()
	if after.Tracked != stats.Tracked-2 {
		t.Fatalf("expected cycle of 2 freed, tracked %d -> %d", stats.Tracked, after.Tracked)
	}
}

func TestGC_StackIsRoot(t *testing.T) {
	vm := NewVM(nil)
	obj := vm.GC.NewObject()
	obj.Fields["note"] = NumberValue(60)
	vm.Stack = append(vm.Stack, obj.Value())

	vm.Collect()
	if obj.Fields == nil {
		t.Fatalf("operand stack value freed")
	}
	vm.Stack = vm.Stack[:0]

	vm.Collect()
	if obj.Fields != nil {
		t.Fatalf("popped value survived collection")
	}
}

func TestGC_FrameEnvIsRoot(t *testing.T) {
	vm := NewVM(nil)
	env := vm.GC.NewEnv(vm.Global)
	env.Def("local", vm.GC.NewString([]byte("hold")).Value())
	vm.Frames = append(vm.Frames, Frame{Env: env, Base: env})

	vm.Collect()
	val, ok := env.Get("local")
	if !ok || string(val.Heap.(*String).Bytes) != "hold" {
		t.Fatalf("frame env local freed: %v %v", val, ok)
	}

	vm.Frames = vm.Frames[:0]
	vm.Collect()
	if env.Vars != nil {
		t.Fatalf("dead frame env survived")
	}
}

func TestGC_ClosurePinsCaptureChain(t *testing.T) {
	vm := NewVM(nil)
	outer := vm.GC.NewEnv(vm.Global)
	outer.Def("x", NumberValue(42))
	inner := vm.GC.NewEnv(outer)
	closure := vm.GC.NewClosure([]string{"a"}, nil, nil, inner)
	vm.Global.Def("f", closure.Value())

	vm.Collect()
	val, ok := inner.Get("x")
	if !ok || val.Num != 42 {
		t.Fatalf("capture chain broken: %v %v", val, ok)
	}
}

func TestGC_AutoCollectUnderPressure(t *testing.T) {
	vm := NewVM(&Options{GCThreshold: 8})
	quoted := &List{Items: []Value{
		NumberValue(1), NumberValue(2), NumberValue(3), NumberValue(4),
		NumberValue(5), NumberValue(6), NumberValue(7), NumberValue(8),
	}}
	// rebinding x turns the previous chain into garbage each round
	code := []Instruction{
		{Op: OpPushQuote, Val: quoted.Value()},
		{Op: OpStoreVar, Str: "x"},
		{Op: OpPushQuote, Val: quoted.Value()},
		{Op: OpStoreVar, Str: "x"},
		{Op: OpPushQuote, Val: quoted.Value()},
		{Op: OpStoreVar, Str: "x"},
		{Op: OpPushConst, Num: 1},
	}
	res, err := vm.ExecuteInstructions(code, vm.Global)
	if err != nil {
		t.Fatal(err)
	}
	if res.Num != 1 {
		t.Fatalf("expected 1, got %v", res.Num)
	}
	stats := vm.GC.Stats()
	if stats.Collections == 0 {
		t.Fatalf("expected automatic collections")
	}
	// the live chain stays intact across automatic collections
	val, ok := vm.Global.Get("x")
	if !ok {
		t.Fatal("x not bound")
	}
	count := 0
	for v := val; v.Kind == KindCons; v = v.Heap.(*Cons).Cdr {
		count++
	}
	if count != 8 {
		t.Fatalf("live chain broken: %d cells", count)
	}
}

func TestGC_AllocationAccounting(t *testing.T) {
	gc := NewGC(0, nil)
	gc.NewString([]byte("a"))
	gc.NewObject()
	gc.NewVector([]float32{1})
	stats := gc.Stats()
	if stats.TotalAllocated != 3 || stats.Tracked != 3 {
		t.Fatalf("unexpected accounting: %+v", stats)
	}
	gc.Collect(nil)
	stats = gc.Stats()
	if stats.Tracked != 0 || stats.TotalFreed != 3 {
		t.Fatalf("unexpected accounting after collect: %+v", stats)
	}
}
