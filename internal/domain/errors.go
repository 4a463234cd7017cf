package domain

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the fatal failure classes of a generator run.
// Every failure aborts the run; there is no recovery or partial output.
type ErrorKind string

const (
	// ErrInvalidRefLink a reference whose fragment is not a schema-container path.
	ErrInvalidRefLink ErrorKind = "invalid_ref_link"
	// ErrUnresolvableSchema a referenced schema that no loaded file declares.
	ErrUnresolvableSchema ErrorKind = "unresolvable_schema"
	// ErrDuplicateTypeName two distinct schema keys sharing one local name.
	ErrDuplicateTypeName ErrorKind = "duplicate_type_name"
	// ErrMalformedArraySchema an array schema without an item schema.
	ErrMalformedArraySchema ErrorKind = "malformed_array_schema"
	// ErrInvalidObjectNotation a schema with no type, properties, or known keyword.
	ErrInvalidObjectNotation ErrorKind = "invalid_object_notation"
	// ErrUnknownFieldType an unrecognized type value.
	ErrUnknownFieldType ErrorKind = "unknown_field_type"
	// ErrMalformedRouteTemplate unmatched braces left in a route template.
	ErrMalformedRouteTemplate ErrorKind = "malformed_route_template"
	// ErrUnboundPathParameter a {placeholder} with no usable declared path parameter.
	ErrUnboundPathParameter ErrorKind = "unbound_path_parameter"
	// ErrUndeclaredPathParameter a declared path parameter with no placeholder.
	ErrUndeclaredPathParameter ErrorKind = "undeclared_path_parameter"
	// ErrGetWithBody a request payload on a GET operation.
	ErrGetWithBody ErrorKind = "get_with_body"
	// ErrNoSuccessResponse an operation without a success response.
	ErrNoSuccessResponse ErrorKind = "no_success_response"
	// ErrDiscriminatorMappingMismatch a tag value mapped outside the member list.
	ErrDiscriminatorMappingMismatch ErrorKind = "discriminator_mapping_mismatch"
	// ErrUnresolvableEnumNameCollision an inline enum that exhausted its name path.
	ErrUnresolvableEnumNameCollision ErrorKind = "unresolvable_enum_name_collision"
)

// Error is the typed error carried by every generator failure. Subject
// names the offending identifier: a schema key, a route, or a field name.
type Error struct {
	Kind    ErrorKind
	Subject string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Subject == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Subject)
}

// NewError creates a typed error for the given kind and subject.
func NewError(kind ErrorKind, subject string) *Error {
	return &Error{Kind: kind, Subject: subject}
}

// NewErrorf creates a typed error with a formatted subject.
func NewErrorf(kind ErrorKind, format string, v ...interface{}) *Error {
	return &Error{Kind: kind, Subject: fmt.Sprintf(format, v...)}
}

// IsKind reports whether err (or any error it wraps) is a generator error
// of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Kind == kind
	}
	return false
}
