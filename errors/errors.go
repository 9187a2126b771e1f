package errors

import (
	// Go Internal Packages
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error so callers can branch on the failure class
// without matching on message text.
type Kind uint8

const (
	Other    Kind = iota // Unclassified error
	Invalid              // Malformed or invalid input
	NotFound             // Entity does not exist
	Conflict             // Duplicate insert or stale compare-and-set
	Internal             // Unexpected collaborator failure
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case Internal:
		return "internal"
	}
	return "other"
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 2)
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if len(parts) == 0 {
		return e.Kind.String()
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from its arguments. Each argument may be a Kind,
// a string (the message) or an error (the cause); unknown types are ignored.
func E(args ...any) error {
	e := &Error{Kind: Other}
	for _, arg := range args {
		switch a := arg.(type) {
		case Kind:
			e.Kind = a
		case string:
			e.Msg = a
		case *Error:
			e.Err = a
		case error:
			e.Err = a
		}
	}
	return e
}

// KindOf reports the Kind of err, walking the wrap chain until it finds
// an *Error. Errors built outside this package report Other.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind != Other {
				return e.Kind
			}
		}
		err = errors.Unwrap(err)
	}
	return Other
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(kind Kind, err error) bool {
	return KindOf(err) == kind
}

// ValidationErrors accumulates per-field validation failures.
type ValidationErrors struct {
	fields []string
	msgs   []string
}

func ValidationErrs() *ValidationErrors {
	return &ValidationErrors{}
}

func (v *ValidationErrors) Add(field, msg string) {
	v.fields = append(v.fields, field)
	v.msgs = append(v.msgs, msg)
}

// Err returns nil when no failures were added, otherwise a single Invalid
// error listing every field in insertion order.
func (v *ValidationErrors) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	parts := make([]string, len(v.fields))
	for i := range v.fields {
		parts[i] = fmt.Sprintf("%s %s", v.fields[i], v.msgs[i])
	}
	return E(Invalid, strings.Join(parts, "; "))
}
