package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

// Mode selects runtime behavior that differs between a deployed host
// and a test run; the engine collects far more aggressively in
// development.
type Mode uint8

const (
	ModeProduction Mode = iota
	ModeDevelopment
)

type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

func (ModuleForProduction) Mode() Mode {
	return ModeProduction
}

func (ModuleForProduction) T() *testing.T {
	return nil
}

type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) Mode() Mode {
	return ModeDevelopment
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}
