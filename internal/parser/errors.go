package parser

import "fmt"

// ParseCode identifies the category of a parse failure.
type ParseCode string

const (
	CodeInvalidFormat ParseCode = "invalid_format"
	CodeMissingField  ParseCode = "missing_required_field"
)

// ParseError reports why an input could not be understood. Reason text is
// user-facing guidance and safe to display verbatim.
type ParseError struct {
	Code   ParseCode
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("missing %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func invalidFormat(reason string) *ParseError {
	return &ParseError{Code: CodeInvalidFormat, Reason: reason}
}

func missingField(field string) *ParseError {
	return &ParseError{
		Code:   CodeMissingField,
		Field:  field,
		Reason: fmt.Sprintf("could not find a %s in the input", field),
	}
}
