package seqlisp

import (
	"github.com/reusee/dscope"
	"github.com/reusee/seq/configs"
	"github.com/reusee/seq/logs"
	"github.com/reusee/seq/modes"
	"github.com/reusee/seq/seqvm"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}

// development collections run this often to surface dangling
// references in tests
const developmentGCThreshold = 256

// NewEngine builds a VM tuned from configuration, with the built-in
// table installed.
type NewEngine func() *seqvm.VM

func (Module) NewEngine(
	engine configs.Engine,
	logger logs.Logger,
	mode modes.Mode,
) NewEngine {
	return func() *seqvm.VM {
		threshold := engine.GCThreshold
		if mode == modes.ModeDevelopment && threshold > developmentGCThreshold {
			threshold = developmentGCThreshold
		}
		vm := seqvm.NewVM(&seqvm.Options{
			StackCapacity: engine.OperandStackCapacity,
			FrameCapacity: engine.CallStackCapacity,
			GCThreshold:   threshold,
			Logger:        logger,
		})
		Install(vm)
		return vm
	}
}
