package configs

import (
	"errors"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

var ErrValueNotFound = errors.New("value not found")

// Loader compiles CUE config files once, validating each against the
// schema, and serves lookups by path.
type Loader struct {
	load func() ([]cue.Value, error)
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{

		load: sync.OnceValues(func() ([]cue.Value, error) {

			var schema cue.Value
			if schemaSrc != "" {
				schema = cuecontext.New().CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, err
				}
			}

			var roots []cue.Value
			for _, filePath := range filePaths {
				content, err := os.ReadFile(filePath)
				if err != nil {
					return nil, err
				}

				value := cuecontext.New().CompileBytes(
					content,
					cue.Filename(filePath),
				)
				if err := value.Err(); err != nil {
					return nil, err
				}

				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, err
					}
				}

				roots = append(roots, value)
			}

			return roots, nil
		}),
	}
}

// AssignFirst decodes the first config file defining path into target.
func (l Loader) AssignFirst(path string, target any) error {
	roots, err := l.load()
	if err != nil {
		return err
	}

	cuePath := cue.ParsePath(path)
	for _, root := range roots {
		value := root.LookupPath(cuePath)
		if value.Err() == nil {
			return value.Decode(target)
		}
	}

	return ErrValueNotFound
}
