package emit

import "fmt"

// UnsupportedConstructError covers an unknown opcode, predicate,
// intrinsic, non-32-bit pointer, unknown constant kind, or void-typed
// value where a prefix is required: a struct holding the offending
// value plus an Error() method, so callers can errors.As when useful
// instead of matching on a string.
type UnsupportedConstructError struct {
	Construct string
	Detail    any
}

func (e *UnsupportedConstructError) Error() string {
	return fmt.Sprintf("unsupported %s: %v", e.Construct, e.Detail)
}

// NewUnsupported builds an UnsupportedConstructError for the given
// construct kind and offending value.
func NewUnsupported(construct string, detail any) error {
	return &UnsupportedConstructError{Construct: construct, Detail: detail}
}

// InvalidMainSignatureError is §7's "Invalid main signature" category:
// main exists but argc/argv are not int+pointer, or the arg count is
// not 0 or 2.
type InvalidMainSignatureError struct {
	Got any
}

func (e *InvalidMainSignatureError) Error() string {
	return fmt.Sprintf("invalid main signature: %v", e.Got)
}
