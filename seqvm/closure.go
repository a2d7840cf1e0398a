package seqvm

// Closure is a callable value. The lambda form carries Params and Code;
// the named form carries an ordered list of pattern-dispatched arms in
// Defs. Both forms hold the environment captured at definition.
type Closure struct {
	heapHeader
	Params []string
	Code   []Instruction
	Defs   []*FunctionDef
	Env    *Env
}

func (c *Closure) Value() Value {
	return Value{Kind: KindClosure, Heap: c}
}

// Named reports whether the closure dispatches over arms.
func (c *Closure) Named() bool {
	return len(c.Defs) > 0
}

// FunctionDef is one arm of a named function: a pattern vector with one
// entry per parameter position, and the arm's compiled body.
type FunctionDef struct {
	heapHeader
	Patterns []Value
	Code     []Instruction
}

func (d *FunctionDef) Value() Value {
	return Value{Kind: KindFuncDef, Heap: d}
}

// Match reports whether the arm accepts args. A symbol pattern matches
// any argument; a number literal pattern matches an equal number.
// Unknown pattern kinds make the arm unmatchable.
func (d *FunctionDef) Match(args []Value) bool {
	if len(d.Patterns) != len(args) {
		return false
	}
	for i, pat := range d.Patterns {
		switch pat.Kind {
		case KindSymbol:
			// binds, always matches
		case KindNumber:
			if args[i].Kind != KindNumber || args[i].Num != pat.Num {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// patternsEqual is the structural equality DefineFuncDef uses to decide
// between replacing an arm and appending a new one.
func patternsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
