package seqvm

import (
	"log/slog"
	"time"
)

// GC is the engine allocator and mark-sweep collector. Every heap value
// is registered exactly once at allocation; only the GC frees them.
// It is not safe for concurrent use.
type GC struct {
	objects []HeapValue

	// Threshold is the number of allocations since the last collection
	// after which the VM triggers one at the next quiescent point.
	// Zero disables automatic collection.
	Threshold int

	Logger *slog.Logger

	sinceCollect   int
	collections    uint64
	totalAllocated uint64
	totalFreed     uint64
}

func NewGC(threshold int, logger *slog.Logger) *GC {
	return &GC{
		Threshold: threshold,
		Logger:    logger,
	}
}

type GCStats struct {
	Tracked        int
	Collections    uint64
	TotalAllocated uint64
	TotalFreed     uint64
}

func (g *GC) Stats() GCStats {
	return GCStats{
		Tracked:        len(g.objects),
		Collections:    g.collections,
		TotalAllocated: g.totalAllocated,
		TotalFreed:     g.totalFreed,
	}
}

func (g *GC) track(h HeapValue) {
	g.objects = append(g.objects, h)
	g.sinceCollect++
	g.totalAllocated++
}

// pressure reports whether enough allocations accumulated to warrant a
// collection.
func (g *GC) pressure() bool {
	return g.Threshold > 0 && g.sinceCollect >= g.Threshold
}

func (g *GC) NewString(b []byte) *String {
	s := &String{Bytes: b}
	g.track(s)
	return s
}

func (g *GC) NewStringCopy(src string) *String {
	return g.NewString([]byte(src))
}

func (g *GC) NewList(items []Value) *List {
	l := &List{Items: items}
	g.track(l)
	return l
}

func (g *GC) NewVector(floats []float32) *Vector {
	v := &Vector{Floats: floats}
	g.track(v)
	return v
}

func (g *GC) NewCons(car, cdr Value) *Cons {
	c := &Cons{Car: car, Cdr: cdr}
	g.track(c)
	return c
}

func (g *GC) NewObject() *Object {
	o := &Object{Fields: make(map[string]Value)}
	g.track(o)
	return o
}

func (g *GC) NewQuote(inner Value) *Quote {
	q := &Quote{Inner: inner}
	g.track(q)
	return q
}

func (g *GC) NewClosure(params []string, code []Instruction, defs []*FunctionDef, env *Env) *Closure {
	c := &Closure{
		Params: params,
		Code:   code,
		Defs:   defs,
		Env:    env,
	}
	g.track(c)
	return c
}

func (g *GC) NewFuncDef(patterns []Value, code []Instruction) *FunctionDef {
	d := &FunctionDef{
		Patterns: patterns,
		Code:     code,
	}
	g.track(d)
	return d
}

func (g *GC) NewEnv(parent *Env) *Env {
	e := &Env{Parent: parent}
	g.track(e)
	return e
}

// Roots enumerates everything a collection must keep alive. The VM is
// the only Roots implementation in the engine; embedders holding values
// across collections can provide their own.
type Roots interface {
	MarkRoots(m *Marker)
}

// Marker is handed to Roots during the mark phase.
type Marker struct {
	g *GC
}

func (m *Marker) MarkValue(v Value) {
	m.g.markValue(v)
}

func (m *Marker) MarkEnv(e *Env) {
	m.g.markEnv(e)
}

// Collect runs a full mark-sweep cycle at a quiescent point. Values
// unreachable from roots are freed: removed from tracking and their
// interior references cleared.
func (g *GC) Collect(roots Roots) GCStats {
	start := time.Now()

	if roots != nil {
		roots.MarkRoots(&Marker{g: g})
	}

	kept := g.objects[:0]
	freed := 0
	for _, obj := range g.objects {
		h := obj.header()
		if h.marked {
			h.marked = false
			kept = append(kept, obj)
			continue
		}
		g.free(obj)
		freed++
	}
	// Drop the freed tail so the backing array no longer pins objects.
	tail := g.objects[len(kept):]
	for i := range tail {
		tail[i] = nil
	}
	g.objects = kept

	g.sinceCollect = 0
	g.collections++
	g.totalFreed += uint64(freed)

	stats := g.Stats()
	if g.Logger != nil {
		g.Logger.Debug("gc collect",
			"tracked", stats.Tracked,
			"freed", freed,
			"duration", time.Since(start),
		)
	}
	return stats
}

func (g *GC) markValue(v Value) {
	if v.Heap == nil {
		return
	}
	h := v.Heap.header()
	if h.marked {
		// already visited, cycles terminate here
		return
	}
	h.marked = true

	switch o := v.Heap.(type) {
	case *String, *Vector:
		// no interior references
	case *List:
		for _, item := range o.Items {
			g.markValue(item)
		}
	case *Cons:
		g.markValue(o.Car)
		g.markValue(o.Cdr)
	case *Object:
		for _, val := range o.Fields {
			g.markValue(val)
		}
	case *Quote:
		g.markValue(o.Inner)
	case *Closure:
		for _, def := range o.Defs {
			g.markValue(def.Value())
		}
		g.markEnv(o.Env)
	case *FunctionDef:
		for _, pat := range o.Patterns {
			g.markValue(pat)
		}
	}
}

func (g *GC) markEnv(e *Env) {
	for ; e != nil; e = e.Parent {
		if e.marked {
			return
		}
		e.marked = true
		for _, v := range e.Vars {
			g.markValue(v)
		}
	}
}

// free clears the interior references of an unreachable object so a
// stale Value pointing at it cannot keep a subgraph alive.
func (g *GC) free(obj HeapValue) {
	switch o := obj.(type) {
	case *String:
		o.Bytes = nil
	case *List:
		o.Items = nil
	case *Vector:
		o.Floats = nil
	case *Cons:
		o.Car = Nil
		o.Cdr = Nil
	case *Object:
		o.Fields = nil
	case *Quote:
		o.Inner = Nil
	case *Closure:
		o.Params = nil
		o.Code = nil
		o.Defs = nil
		o.Env = nil
	case *FunctionDef:
		o.Patterns = nil
		o.Code = nil
	case *Env:
		o.Parent = nil
		o.Vars = nil
	}
}
