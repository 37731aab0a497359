package ledger

import "errors"

const (
	KindNotFound        = "not_found"
	KindInvalidArgument = "invalid_argument"
	KindConflict        = "conflict"
	KindExceedsTotal    = "exceeds_total"
)

// Error is the structured failure returned by every ledger operation. Details
// carries the diagnostic amounts for the exceeds_total case so the frontend
// can tell the user exactly how much room is left on the payment.
type Error struct {
	Kind    string
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func invalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func exceedsTotal(message string, details map[string]interface{}) *Error {
	return &Error{Kind: KindExceedsTotal, Message: message, Details: details}
}

// AsError unwraps err into a ledger Error, if it is one.
func AsError(err error) (*Error, bool) {
	var lerr *Error
	if errors.As(err, &lerr) {
		return lerr, true
	}
	return nil, false
}
