package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seq.cue")
	if err := os.WriteFile(path, []byte(`
engine: {
	operand_stack_capacity: 2048
	gc_threshold: 128
}
`), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader([]string{path}, EngineSchema)
	var engine Engine
	if err := loader.AssignFirst("engine", &engine); err != nil {
		t.Fatal(err)
	}
	if engine.OperandStackCapacity != 2048 {
		t.Fatalf("unexpected capacity: %d", engine.OperandStackCapacity)
	}
	if engine.GCThreshold != 128 {
		t.Fatalf("unexpected threshold: %d", engine.GCThreshold)
	}
}

func TestLoaderValueNotFound(t *testing.T) {
	loader := NewLoader(nil, "")
	var engine Engine
	err := loader.AssignFirst("engine", &engine)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("expected value not found, got %v", err)
	}
}

func TestLoaderSchemaRejects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	if err := os.WriteFile(path, []byte(`
engine: {
	gc_threshold: -1
}
`), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader([]string{path}, EngineSchema)
	var engine Engine
	if err := loader.AssignFirst("engine", &engine); err == nil {
		t.Fatal("expected schema violation")
	}
}
