package seqlisp

import "errors"

// Reader errors.
var (
	ErrUnexpectedEOF    = errors.New("unexpected end of input")
	ErrInvalidObjectKey = errors.New("invalid object key")
)

// Compiler errors. All are fatal to the compilation unit.
var (
	ErrInvalidExpression         = errors.New("invalid expression")
	ErrInvalidOperator           = errors.New("invalid operator")
	ErrInvalidFunctionDefinition = errors.New("invalid function definition")
	ErrInvalidPattern            = errors.New("invalid pattern")
	ErrInvalidLambda             = errors.New("invalid lambda")
	ErrUnsupportedExpression     = errors.New("unsupported expression")
)
