package seqvm

import (
	"fmt"
	"strings"
)

func (v *VM) run() (Value, error) {
	for {
		if v.GC.pressure() {
			v.Collect()
		}

		f := &v.Frames[len(v.Frames)-1]
		if f.PC >= len(f.Code) {
			if done, result, err := v.popFrame(); done {
				return result, err
			}
			continue
		}

		inst := f.Code[f.PC]
		switch inst.Op {

		case OpPushConst:
			v.push(NumberValue(inst.Num))
			f.PC++

		case OpPushConstString:
			v.push(v.GC.NewStringCopy(inst.Str).Value())
			f.PC++

		case OpPushConstSymbol:
			v.push(SymbolValue(inst.Str))
			f.PC++

		case OpPushQuote:
			v.push(v.materialize(inst.Val))
			f.PC++

		case OpPushFunc:
			template := inst.Val.Heap.(*Closure)
			v.push(v.GC.NewClosure(template.Params, template.Code, nil, f.Env).Value())
			f.PC++

		case OpPushFuncDef:
			template := inst.Val.Heap.(*FunctionDef)
			v.push(v.GC.NewFuncDef(template.Patterns, template.Code).Value())
			f.PC++

		case OpPushEmptyObject:
			v.push(v.GC.NewObject().Value())
			f.PC++

		case OpDup:
			if len(v.Stack) == 0 {
				return Nil, fmt.Errorf("%w: dup on empty stack", ErrStackUnderflow)
			}
			v.push(v.Stack[len(v.Stack)-1])
			f.PC++

		case OpAdd, OpSub, OpMul, OpDiv:
			if err := v.arith(inst.Op, inst.Arg); err != nil {
				return Nil, err
			}
			f.PC++

		case OpLoadVar:
			val, ok := f.Env.Get(inst.Str)
			if !ok {
				if !isOperatorName(inst.Str) {
					return Nil, fmt.Errorf("%w: %s", ErrVariableNotFound, inst.Str)
				}
				// reserved reduction operator names evaluate to
				// themselves so they can be passed to natives
				val = SymbolValue(inst.Str)
			}
			v.push(val)
			f.PC++

		case OpStoreVar:
			val, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: store %s", ErrStackUnderflow, inst.Str)
			}
			f.Env.Def(inst.Str, val)
			f.PC++

		case OpEnterScope:
			f.Env = v.GC.NewEnv(f.Env)
			f.PC++

		case OpExitScope:
			if f.Env == f.Base {
				return Nil, ErrNoParentScope
			}
			f.Env = f.Env.Parent
			f.PC++

		case OpDefineFunc:
			if len(v.Stack) == 0 {
				return Nil, fmt.Errorf("%w: define %s", ErrStackUnderflow, inst.Str)
			}
			f.Env.Def(inst.Str, v.Stack[len(v.Stack)-1])
			f.PC++

		case OpDefineFuncDef:
			val, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: define %s", ErrStackUnderflow, inst.Str)
			}
			if val.Kind != KindFuncDef {
				return Nil, fmt.Errorf("%w: define %s over %s", ErrInvalidType, inst.Str, val.Kind)
			}
			v.push(v.defineFuncDef(f, inst.Str, val.Heap.(*FunctionDef)))
			f.PC++

		case OpCall:
			if err := v.call(f, inst.Arg); err != nil {
				return Nil, err
			}

		case OpJump:
			f.PC += inst.Arg

		case OpJumpFalse:
			cond, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: jump condition", ErrStackUnderflow)
			}
			if !cond.Truthy() {
				f.PC += inst.Arg
			} else {
				f.PC++
			}

		case OpReturn:
			if done, result, err := v.popFrame(); done {
				return result, err
			}

		case OpCallObjSet:
			val, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: object set", ErrStackUnderflow)
			}
			key, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: object set", ErrStackUnderflow)
			}
			target, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: object set", ErrStackUnderflow)
			}
			if key.Kind != KindSymbol {
				return Nil, fmt.Errorf("%w: object key is %s", ErrTypeMismatch, key.Kind)
			}
			if target.Kind != KindObject {
				return Nil, fmt.Errorf("%w: set on %s", ErrNotAnObject, target.Kind)
			}
			target.Heap.(*Object).Fields[key.Sym] = val
			v.push(target)
			f.PC++

		case OpCallObjMerge:
			src, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: object merge", ErrStackUnderflow)
			}
			dst, ok := v.pop()
			if !ok {
				return Nil, fmt.Errorf("%w: object merge", ErrStackUnderflow)
			}
			if src.Kind != KindObject || dst.Kind != KindObject {
				return Nil, fmt.Errorf("%w: merge %s into %s", ErrNotAnObject, src.Kind, dst.Kind)
			}
			dstObj := dst.Heap.(*Object)
			for k, val := range src.Heap.(*Object).Fields {
				dstObj.Fields[k] = val
			}
			v.push(dst)
			f.PC++

		default:
			return Nil, fmt.Errorf("%w: opcode %s", ErrInvalidType, inst.Op)
		}
	}
}

// popFrame ends the current frame. When it was the only one, the
// program is done and the sole operand is the result.
func (v *VM) popFrame() (bool, Value, error) {
	v.Frames = v.Frames[:len(v.Frames)-1]
	if len(v.Frames) > 0 {
		return false, Nil, nil
	}
	if len(v.Stack) != 1 {
		return true, Nil, fmt.Errorf("%w: %d operands left", ErrInvalidResult, len(v.Stack))
	}
	result := v.Stack[len(v.Stack)-1]
	v.Stack = v.Stack[:0]
	return true, result, nil
}

// call dispatches Call(argc): lambda closures and named arms get a new
// frame over the shared operand stack, natives run in place.
func (v *VM) call(f *Frame, argc int) error {
	if len(v.Stack) < argc+1 {
		return fmt.Errorf("%w: call with %d arguments", ErrStackUnderflow, argc)
	}
	base := len(v.Stack) - argc
	v.args = append(v.args[:0], v.Stack[base:]...)
	v.Stack = v.Stack[:base]
	callee, _ := v.pop()

	switch callee.Kind {

	case KindClosure:
		closure := callee.Heap.(*Closure)
		var code []Instruction
		env := v.GC.NewEnv(closure.Env)
		if closure.Named() {
			var arm *FunctionDef
			for _, def := range closure.Defs {
				if def.Match(v.args) {
					arm = def
					break
				}
			}
			if arm == nil {
				return fmt.Errorf("%w: no matching arm for %d arguments", ErrInvalidKey, argc)
			}
			for i, pat := range arm.Patterns {
				if pat.Kind == KindSymbol {
					env.Def(pat.Sym, v.args[i])
				}
			}
			code = arm.Code
		} else {
			if len(closure.Params) != argc {
				return fmt.Errorf("%w: want %d, got %d", ErrArgumentCountMismatch, len(closure.Params), argc)
			}
			for i, param := range closure.Params {
				env.Def(param, v.args[i])
			}
			code = closure.Code
		}
		f.PC++
		v.Frames = append(v.Frames, Frame{Code: code, Env: env, Base: env})
		return nil

	case KindNative:
		result, err := callee.Native.Func(v, v.args, v.GC)
		if err != nil {
			return fmt.Errorf("%s: %w", callee.Native.Name, err)
		}
		v.push(result)
		f.PC++
		return nil
	}

	return fmt.Errorf("%w: calling %s", ErrNotAFunction, callee.Kind)
}

// defineFuncDef adds an arm to the named function bound to name, or
// binds a fresh named closure. Adding an arm re-captures the defining
// scope so later definitions see it.
func (v *VM) defineFuncDef(f *Frame, name string, def *FunctionDef) Value {
	if existing, ok := f.Env.Get(name); ok && existing.Kind == KindClosure {
		closure := existing.Heap.(*Closure)
		if closure.Named() {
			replaced := false
			for i, d := range closure.Defs {
				if patternsEqual(d.Patterns, def.Patterns) {
					closure.Defs[i] = def
					replaced = true
					break
				}
			}
			if !replaced {
				closure.Defs = append(closure.Defs, def)
			}
			closure.Env = v.GC.NewEnv(f.Env)
			return existing
		}
	}
	closure := v.GC.NewClosure(nil, nil, []*FunctionDef{def}, v.GC.NewEnv(f.Env))
	f.Env.Def(name, closure.Value())
	return closure.Value()
}

// materialize copies a quoted compile-time value into GC-tracked
// allocations. Lists become chained cons cells.
func (v *VM) materialize(val Value) Value {
	switch val.Kind {
	case KindList:
		list := val.Heap.(*List)
		out := Nil
		for i := len(list.Items) - 1; i >= 0; i-- {
			out = v.GC.NewCons(v.materialize(list.Items[i]), out).Value()
		}
		return out
	case KindString:
		s := val.Heap.(*String)
		return v.GC.NewString(append([]byte(nil), s.Bytes...)).Value()
	case KindVector:
		vec := val.Heap.(*Vector)
		return v.GC.NewVector(append([]float32(nil), vec.Floats...)).Value()
	}
	return val
}

// isOperatorName reports the names LoadVar resolves to symbol literals
// when unbound, so reduction operators can be passed as arguments.
func isOperatorName(name string) bool {
	switch name {
	case "+", "-", "*", "/":
		return true
	}
	return strings.HasPrefix(name, "min") || strings.HasPrefix(name, "max")
}
