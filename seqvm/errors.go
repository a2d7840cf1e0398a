package seqvm

import "errors"

var (
	ErrStackUnderflow        = errors.New("stack underflow")
	ErrInvalidResult         = errors.New("invalid result")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrVariableNotFound      = errors.New("variable not found")
	ErrNotAFunction          = errors.New("not a function")
	ErrArgumentCountMismatch = errors.New("argument count mismatch")
	ErrNotANumber            = errors.New("not a number")
	ErrNotACons              = errors.New("not a cons")
	ErrNotAnObject           = errors.New("not an object")
	ErrInvalidKey            = errors.New("invalid key")
	ErrTypeMismatch          = errors.New("type mismatch")
	ErrNoParentScope         = errors.New("no parent scope")
	ErrInvalidType           = errors.New("invalid type")
	ErrVectorLengthMismatch  = errors.New("vector length mismatch")
)
