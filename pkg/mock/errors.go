package mock

import (
	"errors"
	"fmt"
)

// Install-time configuration errors.
var (
	// ErrUnknownType is returned when the mock Map or base resolvers
	// reference a type the schema does not define.
	ErrUnknownType = errors.New("unknown type in mock configuration")
	// ErrUnknownField is returned when the mock Map or base resolvers
	// reference a field the schema does not define.
	ErrUnknownField = errors.New("unknown field in mock configuration")
)

// MissingMockKindError reports a field whose type has no built-in default
// and no configured factory, typically a custom scalar. It surfaces at
// synthesis time as a GraphQL error on the failing field.
type MissingMockKindError struct {
	// TypeName is the type that could not be synthesized.
	TypeName string
}

func (e *MissingMockKindError) Error() string {
	return fmt.Sprintf("no mock defined for type %q", e.TypeName)
}

// InvalidListSpecError reports a malformed List length specification, such
// as a negative length or a descending range. It surfaces at synthesis time.
type InvalidListSpecError struct {
	Min int
	Max int
}

func (e *InvalidListSpecError) Error() string {
	return fmt.Sprintf("invalid list length spec [%d, %d]", e.Min, e.Max)
}
