package cmds

// Var declares a single-valued flag, e.g. -script PATH.
func Var[T any](name string) *T {
	value := new(T)
	Define(name, Func(func(v T) {
		*value = v
	}))
	return value
}

// Collect declares a repeatable flag, e.g. -config PATH -config PATH.
func Collect[T any](name string) *[]T {
	value := new([]T)
	Define(name, Func(func(v T) {
		*value = append(*value, v)
	}))
	return value
}
