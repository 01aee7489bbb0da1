package diagnostics

import (
	"fmt"

	"github.com/funvibe/lifetime/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character
	ErrL002 ErrorCode = "L002" // unterminated string

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // top-level item is not a definition
	ErrP004 ErrorCode = "P004" // duplicate parameter
	ErrP005 ErrorCode = "P005" // expression too complex

	// Runtime (host failures; evaluation errors are values)
	ErrR001 ErrorCode = "R001"
)

// DiagnosticError is a positioned compile-time error.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s [%s]", file, e.Token.Line, e.Token.Column, e.Message, e.Code)
}
