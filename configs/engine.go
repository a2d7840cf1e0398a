package configs

import (
	"errors"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

// EngineSchema constrains the engine section of config files.
const EngineSchema = `
engine?: {
	operand_stack_capacity?: int & >0
	call_stack_capacity?:    int & >0
	gc_threshold?:           int & >0
}
`

// Engine is the tuning block for one VM instance.
type Engine struct {
	OperandStackCapacity int `json:"operand_stack_capacity"`
	CallStackCapacity    int `json:"call_stack_capacity"`
	GCThreshold          int `json:"gc_threshold"`
}

func (Module) Engine(
	loader Loader,
) Engine {
	var engine Engine
	if err := loader.AssignFirst("engine", &engine); err != nil {
		if !errors.Is(err, ErrValueNotFound) {
			panic(err)
		}
	}
	if engine.OperandStackCapacity == 0 {
		engine.OperandStackCapacity = 1024
	}
	if engine.CallStackCapacity == 0 {
		engine.CallStackCapacity = 64
	}
	if engine.GCThreshold == 0 {
		engine.GCThreshold = 4096
	}
	return engine
}
