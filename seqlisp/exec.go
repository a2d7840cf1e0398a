package seqlisp

import (
	"fmt"
	"io"
	"strings"

	"github.com/reusee/seq/seqvm"
)

// Exec reads, compiles and executes every top-level form in src
// against the VM's global environment and returns the last result.
// Positioned errors come back with the source attached so they render
// the offending line.
func Exec(vm *seqvm.VM, src any) (seqvm.Value, error) {
	var content string
	switch s := src.(type) {
	case string:
		content = s
	case []byte:
		content = string(s)
	case io.Reader:
		b, err := io.ReadAll(s)
		if err != nil {
			return seqvm.Nil, err
		}
		content = string(b)
	default:
		content = fmt.Sprint(s)
	}
	source := NewSource("input", content)

	reader := NewReader(strings.NewReader(content))
	result := seqvm.Nil
	for {
		form, err := reader.Read()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return seqvm.Nil, source.Attach(err)
		}
		code, err := Compile(form)
		if err != nil {
			return seqvm.Nil, source.Attach(err)
		}
		result, err = vm.ExecuteInstructions(code, vm.Global)
		if err != nil {
			return seqvm.Nil, err
		}
	}
}
