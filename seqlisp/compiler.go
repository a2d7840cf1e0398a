package seqlisp

import (
	"fmt"

	"github.com/reusee/seq/seqvm"
)

// Compiler translates expression trees into linear instruction
// sequences, appending to a shared code buffer.
type Compiler struct {
	code []seqvm.Instruction
}

// Compile translates one top-level expression and returns its code.
func Compile(expr seqvm.Value) ([]seqvm.Instruction, error) {
	c := &Compiler{}
	if err := c.compileExpr(expr); err != nil {
		return nil, err
	}
	return c.code, nil
}

func (c *Compiler) emit(inst seqvm.Instruction) int {
	c.code = append(c.code, inst)
	return len(c.code) - 1
}

// patchJump rewrites the offset of the jump at index to land on
// target. Offsets are relative to the jump instruction's own index.
func (c *Compiler) patchJump(index, target int) {
	c.code[index].Arg = target - index
}

func (c *Compiler) compileExpr(expr seqvm.Value) error {
	switch expr.Kind {

	case seqvm.KindNumber:
		c.emit(seqvm.Instruction{Op: seqvm.OpPushConst, Num: expr.Num})
		return nil

	case seqvm.KindString:
		s := expr.Heap.(*seqvm.String)
		c.emit(seqvm.Instruction{Op: seqvm.OpPushConstString, Str: string(s.Bytes)})
		return nil

	case seqvm.KindSymbol:
		c.emit(seqvm.Instruction{Op: seqvm.OpLoadVar, Str: expr.Sym})
		return nil

	case seqvm.KindNil:
		c.emit(seqvm.Instruction{Op: seqvm.OpPushQuote, Val: seqvm.Nil})
		return nil

	case seqvm.KindQuote:
		q := expr.Heap.(*seqvm.Quote)
		c.emit(seqvm.Instruction{Op: seqvm.OpPushQuote, Val: q.Inner})
		return nil

	case seqvm.KindObjectLiteral:
		return c.compileObjectLiteral(expr.Lit)

	case seqvm.KindList:
		return c.compileList(expr.Heap.(*seqvm.List))
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedExpression, expr.Kind)
}

func (c *Compiler) compileObjectLiteral(lit *seqvm.ObjectLiteral) error {
	c.emit(seqvm.Instruction{Op: seqvm.OpPushEmptyObject})
	for _, entry := range lit.Entries {
		if entry.Spread {
			if err := c.compileExpr(entry.Expr); err != nil {
				return err
			}
			c.emit(seqvm.Instruction{Op: seqvm.OpCallObjMerge, Arg: 1})
			continue
		}
		c.emit(seqvm.Instruction{Op: seqvm.OpPushConstSymbol, Str: entry.Key})
		if err := c.compileExpr(entry.Expr); err != nil {
			return err
		}
		c.emit(seqvm.Instruction{Op: seqvm.OpCallObjSet, Arg: 2})
	}
	return nil
}

func (c *Compiler) compileList(list *seqvm.List) error {
	if len(list.Items) == 0 {
		return fmt.Errorf("%w: empty list", ErrInvalidExpression)
	}
	head := list.Items[0]
	rest := list.Items[1:]

	if head.Kind == seqvm.KindSymbol {
		switch head.Sym {
		case "set":
			return c.compileSet(rest)
		case "defun":
			return c.compileDefun(rest)
		case "lambda":
			return c.compileLambda(rest)
		case "let":
			return c.compileLet(rest)
		case "if":
			return c.compileIf(rest)
		case "+":
			return c.compileArith(seqvm.OpAdd, rest)
		case "-":
			return c.compileArith(seqvm.OpSub, rest)
		case "*":
			return c.compileArith(seqvm.OpMul, rest)
		case "/":
			return c.compileArith(seqvm.OpDiv, rest)
		}
		// function call by name
		c.emit(seqvm.Instruction{Op: seqvm.OpLoadVar, Str: head.Sym})
		return c.compileCallArgs(rest)
	}

	if head.Kind == seqvm.KindList {
		// computed callee, e.g. ((lambda (x) x) 1)
		if err := c.compileExpr(head); err != nil {
			return err
		}
		return c.compileCallArgs(rest)
	}

	return fmt.Errorf("%w: %s in call position", ErrInvalidExpression, head.Kind)
}

func (c *Compiler) compileCallArgs(args []seqvm.Value) error {
	for _, arg := range args {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpCall, Arg: len(args)})
	return nil
}

// compileSet emits EXPR, Dup, StoreVar so the assigned value stays on
// the stack as the form's result.
func (c *Compiler) compileSet(rest []seqvm.Value) error {
	if len(rest) != 2 {
		return fmt.Errorf("%w: set needs a name and a value", ErrInvalidExpression)
	}
	if rest[0].Kind != seqvm.KindSymbol {
		return fmt.Errorf("%w: set target is %s", ErrInvalidOperator, rest[0].Kind)
	}
	if err := c.compileExpr(rest[1]); err != nil {
		return err
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpDup})
	c.emit(seqvm.Instruction{Op: seqvm.OpStoreVar, Str: rest[0].Sym})
	return nil
}

func (c *Compiler) compileDefun(rest []seqvm.Value) error {
	if len(rest) != 3 {
		return fmt.Errorf("%w: defun needs a name, patterns and a body", ErrInvalidFunctionDefinition)
	}
	name := rest[0]
	if name.Kind != seqvm.KindSymbol {
		return fmt.Errorf("%w: name is %s", ErrInvalidFunctionDefinition, name.Kind)
	}

	patterns, err := defunPatterns(rest[1])
	if err != nil {
		return err
	}

	body, err := compileBody(rest[2])
	if err != nil {
		return err
	}

	def := &seqvm.FunctionDef{
		Patterns: patterns,
		Code:     body,
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpPushFuncDef, Val: def.Value()})
	c.emit(seqvm.Instruction{Op: seqvm.OpDefineFuncDef, Str: name.Sym})
	return nil
}

// defunPatterns accepts a pattern list, or a bare symbol or number as
// a one-element pattern vector.
func defunPatterns(form seqvm.Value) ([]seqvm.Value, error) {
	switch form.Kind {
	case seqvm.KindSymbol, seqvm.KindNumber:
		return []seqvm.Value{form}, nil
	case seqvm.KindList:
		items := form.Heap.(*seqvm.List).Items
		for _, pat := range items {
			if pat.Kind != seqvm.KindSymbol && pat.Kind != seqvm.KindNumber {
				return nil, fmt.Errorf("%w: %s", ErrInvalidPattern, pat.Kind)
			}
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: patterns are %s", ErrInvalidFunctionDefinition, form.Kind)
}

func (c *Compiler) compileLambda(rest []seqvm.Value) error {
	if len(rest) != 2 {
		return fmt.Errorf("%w: lambda needs parameters and a body", ErrInvalidLambda)
	}
	if rest[0].Kind != seqvm.KindList {
		return fmt.Errorf("%w: parameters are %s", ErrInvalidLambda, rest[0].Kind)
	}
	var params []string
	for _, p := range rest[0].Heap.(*seqvm.List).Items {
		if p.Kind != seqvm.KindSymbol {
			return fmt.Errorf("%w: parameter is %s", ErrInvalidPattern, p.Kind)
		}
		params = append(params, p.Sym)
	}

	body, err := compileBody(rest[1])
	if err != nil {
		return err
	}

	// capture environment is bound when PushFunc executes
	closure := &seqvm.Closure{
		Params: params,
		Code:   body,
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpPushFunc, Val: closure.Value()})
	return nil
}

// compileBody compiles a function body into a fresh buffer ending with
// Return.
func compileBody(body seqvm.Value) ([]seqvm.Instruction, error) {
	sub := &Compiler{}
	if err := sub.compileExpr(body); err != nil {
		return nil, err
	}
	sub.emit(seqvm.Instruction{Op: seqvm.OpReturn})
	return sub.code, nil
}

func (c *Compiler) compileLet(rest []seqvm.Value) error {
	if len(rest) != 2 {
		return fmt.Errorf("%w: let needs bindings and a body", ErrInvalidExpression)
	}
	if rest[0].Kind != seqvm.KindList {
		return fmt.Errorf("%w: let bindings are %s", ErrInvalidExpression, rest[0].Kind)
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpEnterScope})
	for _, binding := range rest[0].Heap.(*seqvm.List).Items {
		if binding.Kind != seqvm.KindList {
			return fmt.Errorf("%w: let binding is %s", ErrInvalidExpression, binding.Kind)
		}
		pair := binding.Heap.(*seqvm.List).Items
		if len(pair) != 2 || pair[0].Kind != seqvm.KindSymbol {
			return fmt.Errorf("%w: let binding shape", ErrInvalidExpression)
		}
		if err := c.compileExpr(pair[1]); err != nil {
			return err
		}
		c.emit(seqvm.Instruction{Op: seqvm.OpStoreVar, Str: pair[0].Sym})
	}
	if err := c.compileExpr(rest[1]); err != nil {
		return err
	}
	c.emit(seqvm.Instruction{Op: seqvm.OpExitScope})
	return nil
}

func (c *Compiler) compileIf(rest []seqvm.Value) error {
	if len(rest) != 2 && len(rest) != 3 {
		return fmt.Errorf("%w: if needs a condition and branches", ErrInvalidExpression)
	}
	if err := c.compileExpr(rest[0]); err != nil {
		return err
	}
	jumpFalse := c.emit(seqvm.Instruction{Op: seqvm.OpJumpFalse})

	if err := c.compileExpr(rest[1]); err != nil {
		return err
	}
	jumpEnd := c.emit(seqvm.Instruction{Op: seqvm.OpJump})

	c.patchJump(jumpFalse, len(c.code))
	if len(rest) == 3 {
		if err := c.compileExpr(rest[2]); err != nil {
			return err
		}
	} else {
		c.emit(seqvm.Instruction{Op: seqvm.OpPushQuote, Val: seqvm.Nil})
	}
	c.patchJump(jumpEnd, len(c.code))
	return nil
}

func (c *Compiler) compileArith(op seqvm.OpCode, operands []seqvm.Value) error {
	for _, operand := range operands {
		if err := c.compileExpr(operand); err != nil {
			return err
		}
	}
	c.emit(seqvm.Instruction{Op: op, Arg: len(operands)})
	return nil
}
