package seqlisp

import (
	"fmt"
	"strings"

	"github.com/reusee/seq/seqvm"
)

// Install registers the built-in table into the VM's global
// environment. The nil name is bound to the nil value itself so
// printed programs read back.
func Install(vm *seqvm.VM) {
	def := func(name string, fn func(vm *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error)) {
		vm.Global.Def(name, seqvm.NativeValue(&seqvm.NativeFunc{
			Name: name,
			Func: fn,
		}))
	}

	vm.Global.Def("nil", seqvm.Nil)

	def("<", builtinLess)
	def("==", builtinEqual)
	def("cons", builtinCons)
	def("car", builtinCar)
	def("cdr", builtinCdr)
	def("list", builtinList)
	def("nil?", builtinIsNil)
	def("len", builtinLen)
	def("concat", builtinConcat)
	def("get", builtinGet)
	def("#", builtinVector)
	def("@reduce", builtinReduce)
	def("@stride", builtinStride)
}

func wantArgs(args []seqvm.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: want %d, got %d", seqvm.ErrArgumentCountMismatch, n, len(args))
	}
	return nil
}

func builtinLess(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return seqvm.Nil, err
	}
	if args[0].Kind != seqvm.KindNumber || args[1].Kind != seqvm.KindNumber {
		return seqvm.Nil, fmt.Errorf("%w: comparing %s and %s", seqvm.ErrNotANumber, args[0].Kind, args[1].Kind)
	}
	return seqvm.BoolValue(args[0].Num < args[1].Num), nil
}

func builtinEqual(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return seqvm.Nil, err
	}
	return seqvm.BoolValue(args[0].Equal(args[1])), nil
}

func builtinCons(_ *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return seqvm.Nil, err
	}
	return alloc.NewCons(args[0], args[1]).Value(), nil
}

func builtinCar(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 1); err != nil {
		return seqvm.Nil, err
	}
	if args[0].Kind != seqvm.KindCons {
		return seqvm.Nil, fmt.Errorf("%w: car of %s", seqvm.ErrNotACons, args[0].Kind)
	}
	return args[0].Heap.(*seqvm.Cons).Car, nil
}

func builtinCdr(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 1); err != nil {
		return seqvm.Nil, err
	}
	if args[0].Kind != seqvm.KindCons {
		return seqvm.Nil, fmt.Errorf("%w: cdr of %s", seqvm.ErrNotACons, args[0].Kind)
	}
	return args[0].Heap.(*seqvm.Cons).Cdr, nil
}

func builtinList(_ *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error) {
	out := seqvm.Nil
	for i := len(args) - 1; i >= 0; i-- {
		out = alloc.NewCons(args[i], out).Value()
	}
	return out, nil
}

func builtinIsNil(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 1); err != nil {
		return seqvm.Nil, err
	}
	return seqvm.BoolValue(args[0].Kind == seqvm.KindNil), nil
}

func builtinLen(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 1); err != nil {
		return seqvm.Nil, err
	}
	switch args[0].Kind {
	case seqvm.KindNil:
		return seqvm.NumberValue(0), nil
	case seqvm.KindString:
		return seqvm.NumberValue(float64(len(args[0].Heap.(*seqvm.String).Bytes))), nil
	case seqvm.KindList:
		return seqvm.NumberValue(float64(len(args[0].Heap.(*seqvm.List).Items))), nil
	case seqvm.KindVector:
		return seqvm.NumberValue(float64(len(args[0].Heap.(*seqvm.Vector).Floats))), nil
	case seqvm.KindObject:
		return seqvm.NumberValue(float64(len(args[0].Heap.(*seqvm.Object).Fields))), nil
	case seqvm.KindCons:
		count := 0
		v := args[0]
		for v.Kind == seqvm.KindCons {
			count++
			v = v.Heap.(*seqvm.Cons).Cdr
		}
		return seqvm.NumberValue(float64(count)), nil
	}
	return seqvm.Nil, fmt.Errorf("%w: len of %s", seqvm.ErrInvalidType, args[0].Kind)
}

func builtinConcat(_ *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error) {
	if len(args) == 0 {
		return seqvm.Nil, fmt.Errorf("%w: concat needs arguments", seqvm.ErrArgumentCountMismatch)
	}
	switch args[0].Kind {

	case seqvm.KindString:
		var out []byte
		for _, a := range args {
			if a.Kind != seqvm.KindString {
				return seqvm.Nil, fmt.Errorf("%w: concat string with %s", seqvm.ErrTypeMismatch, a.Kind)
			}
			out = append(out, a.Heap.(*seqvm.String).Bytes...)
		}
		return alloc.NewString(out).Value(), nil

	case seqvm.KindVector:
		var out []float32
		for _, a := range args {
			if a.Kind != seqvm.KindVector {
				return seqvm.Nil, fmt.Errorf("%w: concat vector with %s", seqvm.ErrTypeMismatch, a.Kind)
			}
			out = append(out, a.Heap.(*seqvm.Vector).Floats...)
		}
		return alloc.NewVector(out).Value(), nil

	case seqvm.KindCons, seqvm.KindNil:
		var items []seqvm.Value
		for _, a := range args {
			v := a
			for v.Kind == seqvm.KindCons {
				cell := v.Heap.(*seqvm.Cons)
				items = append(items, cell.Car)
				v = cell.Cdr
			}
			if v.Kind != seqvm.KindNil {
				return seqvm.Nil, fmt.Errorf("%w: concat %s", seqvm.ErrTypeMismatch, a.Kind)
			}
		}
		out := seqvm.Nil
		for i := len(items) - 1; i >= 0; i-- {
			out = alloc.NewCons(items[i], out).Value()
		}
		return out, nil
	}

	return seqvm.Nil, fmt.Errorf("%w: concat %s", seqvm.ErrInvalidType, args[0].Kind)
}

// builtinGet indexes objects by string key and sequences by 0-based
// position.
func builtinGet(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return seqvm.Nil, err
	}
	target, key := args[0], args[1]

	switch target.Kind {

	case seqvm.KindObject:
		if key.Kind != seqvm.KindString {
			return seqvm.Nil, fmt.Errorf("%w: object key is %s", seqvm.ErrTypeMismatch, key.Kind)
		}
		name := string(key.Heap.(*seqvm.String).Bytes)
		val, ok := target.Heap.(*seqvm.Object).Fields[name]
		if !ok {
			return seqvm.Nil, fmt.Errorf("%w: %q", seqvm.ErrInvalidKey, name)
		}
		return val, nil

	case seqvm.KindCons:
		if key.Kind != seqvm.KindNumber {
			return seqvm.Nil, fmt.Errorf("%w: index is %s", seqvm.ErrTypeMismatch, key.Kind)
		}
		index := int(key.Num)
		v := target
		for i := 0; v.Kind == seqvm.KindCons; i++ {
			cell := v.Heap.(*seqvm.Cons)
			if i == index {
				return cell.Car, nil
			}
			v = cell.Cdr
		}
		return seqvm.Nil, fmt.Errorf("%w: index %d", seqvm.ErrInvalidKey, index)

	case seqvm.KindList:
		if key.Kind != seqvm.KindNumber {
			return seqvm.Nil, fmt.Errorf("%w: index is %s", seqvm.ErrTypeMismatch, key.Kind)
		}
		items := target.Heap.(*seqvm.List).Items
		index := int(key.Num)
		if index < 0 || index >= len(items) {
			return seqvm.Nil, fmt.Errorf("%w: index %d", seqvm.ErrInvalidKey, index)
		}
		return items[index], nil

	case seqvm.KindVector:
		if key.Kind != seqvm.KindNumber {
			return seqvm.Nil, fmt.Errorf("%w: index is %s", seqvm.ErrTypeMismatch, key.Kind)
		}
		floats := target.Heap.(*seqvm.Vector).Floats
		index := int(key.Num)
		if index < 0 || index >= len(floats) {
			return seqvm.Nil, fmt.Errorf("%w: index %d", seqvm.ErrInvalidKey, index)
		}
		return seqvm.NumberValue(float64(floats[index])), nil
	}

	return seqvm.Nil, fmt.Errorf("%w: get from %s", seqvm.ErrInvalidType, target.Kind)
}

func builtinVector(_ *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error) {
	floats := make([]float32, len(args))
	for i, a := range args {
		if a.Kind != seqvm.KindNumber {
			return seqvm.Nil, fmt.Errorf("%w: vector element is %s", seqvm.ErrNotANumber, a.Kind)
		}
		floats[i] = float32(a.Num)
	}
	return alloc.NewVector(floats).Value(), nil
}

func builtinReduce(_ *seqvm.VM, args []seqvm.Value, _ *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 2); err != nil {
		return seqvm.Nil, err
	}
	if args[0].Kind != seqvm.KindSymbol {
		return seqvm.Nil, fmt.Errorf("%w: reduce operator is %s", seqvm.ErrTypeMismatch, args[0].Kind)
	}
	if args[1].Kind != seqvm.KindVector {
		return seqvm.Nil, fmt.Errorf("%w: reduce over %s", seqvm.ErrTypeMismatch, args[1].Kind)
	}
	floats := args[1].Heap.(*seqvm.Vector).Floats
	op := args[0].Sym

	switch {
	case op == "+":
		var acc float32
		for _, f := range floats {
			acc += f
		}
		return seqvm.NumberValue(float64(acc)), nil

	case op == "*":
		var acc float32 = 1
		for _, f := range floats {
			acc *= f
		}
		return seqvm.NumberValue(float64(acc)), nil

	case strings.HasPrefix(op, "min"):
		if len(floats) == 0 {
			return seqvm.NumberValue(0), nil
		}
		acc := floats[0]
		for _, f := range floats[1:] {
			if f < acc {
				acc = f
			}
		}
		return seqvm.NumberValue(float64(acc)), nil

	case strings.HasPrefix(op, "max"):
		if len(floats) == 0 {
			return seqvm.NumberValue(0), nil
		}
		acc := floats[0]
		for _, f := range floats[1:] {
			if f > acc {
				acc = f
			}
		}
		return seqvm.NumberValue(float64(acc)), nil
	}

	return seqvm.Nil, fmt.Errorf("%w: reduce operator %q", seqvm.ErrInvalidKey, op)
}

func builtinStride(_ *seqvm.VM, args []seqvm.Value, alloc *seqvm.GC) (seqvm.Value, error) {
	if err := wantArgs(args, 3); err != nil {
		return seqvm.Nil, err
	}
	if args[0].Kind != seqvm.KindVector {
		return seqvm.Nil, fmt.Errorf("%w: stride over %s", seqvm.ErrTypeMismatch, args[0].Kind)
	}
	if args[1].Kind != seqvm.KindNumber || args[2].Kind != seqvm.KindNumber {
		return seqvm.Nil, fmt.Errorf("%w: stride arguments", seqvm.ErrNotANumber)
	}
	floats := args[0].Heap.(*seqvm.Vector).Floats
	stride := int(args[1].Num)
	offset := int(args[2].Num)
	if stride < 1 || offset < 0 {
		return seqvm.Nil, fmt.Errorf("%w: stride %d offset %d", seqvm.ErrInvalidType, stride, offset)
	}
	var out []float32
	for i := offset; i < len(floats); i += stride {
		out = append(out, floats[i])
	}
	return alloc.NewVector(out).Value(), nil
}
