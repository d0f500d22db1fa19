package attrv1

import (
	"fmt"
	"go/token"
)

// ErrorCode classifies a declaration parse failure.
type ErrorCode string

const (
	// ErrExpectedNamedList indicates a directive body is not a parenthesized key=value list.
	ErrExpectedNamedList ErrorCode = "expected-named-list"
	// ErrExpectedNamedParameter indicates a list entry is not a single `key = literal` pair.
	ErrExpectedNamedParameter ErrorCode = "expected-named-parameter"
	// ErrUnrecognizedParameter indicates a key outside the directive's recognized set.
	ErrUnrecognizedParameter ErrorCode = "unrecognized-parameter"
	// ErrInvalidAttributeType indicates a literal of the wrong kind for the requested value.
	ErrInvalidAttributeType ErrorCode = "invalid-attribute-type"
	// ErrNameLengthOutOfRange indicates a name outside 1-32 characters.
	ErrNameLengthOutOfRange ErrorCode = "name-length-out-of-range"
	// ErrDescriptionLengthOutOfRange indicates a description outside 1-100 characters.
	ErrDescriptionLengthOutOfRange ErrorCode = "description-length-out-of-range"
	// ErrMissingRequiredAttribute indicates a mandatory key or directive is absent.
	ErrMissingRequiredAttribute ErrorCode = "missing-required-attribute"
	// ErrDescriptionRequired indicates neither a desc key nor a usable doc comment exists.
	ErrDescriptionRequired ErrorCode = "description-required"
	// ErrUnsupportedShape indicates an annotated declaration is not a supported struct shape.
	ErrUnsupportedShape ErrorCode = "unsupported-shape"
	// ErrInvalidVariantShape indicates a group member is not a single named field.
	ErrInvalidVariantShape ErrorCode = "invalid-variant-shape"
	// ErrEmptyGroup indicates a subcommand group with no members.
	ErrEmptyGroup ErrorCode = "empty-group"
	// ErrUnsupportedFieldType indicates a field type that is not a plain type path.
	ErrUnsupportedFieldType ErrorCode = "unsupported-field-type"
)

// Error is a position-tagged declaration parse failure. The position points at
// the offending token so callers can anchor a diagnostic at the exact spot.
type Error struct {
	Code ErrorCode
	Pos  token.Pos
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Diagnostic renders the error as a file:line:col prefixed message using the
// FileSet the declaration was parsed with.
func (e *Error) Diagnostic(fset *token.FileSet) string {
	if fset == nil || !e.Pos.IsValid() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", fset.Position(e.Pos), e.Msg)
}

func newError(code ErrorCode, pos token.Pos, format string, args ...any) *Error {
	return &Error{Code: code, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
