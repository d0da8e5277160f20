package engine

import (
	"errors"
	"fmt"
)

// Reason is a user-facing precondition or warning category. The values are
// stable identifiers the UI layer maps to localized messages.
type Reason string

const (
	ReasonDurationTooShort      Reason = "allocatedDurationIsTooShort"
	ReasonDurationTooLong       Reason = "allocatedDurationIsTooLong"
	ReasonOutsideRequestedTimes Reason = "selectionOutsideOfRequestedTimes"
	ReasonOptionRejected        Reason = "optionIsRejected"
	ReasonUnitUnavailable       Reason = "reservationUnitIsUnavailable"
	ReasonMutationPending       Reason = "mutationAlreadyPending"
	ReasonAllocationDisabled    Reason = "allocationIsDisabled"
)

// PreconditionError is a local, synchronous rejection of a command. No remote
// call has been made when one of these is returned.
type PreconditionError struct {
	Reason Reason
	Detail string
}

func (e *PreconditionError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

// ReasonOf extracts the precondition reason from an error chain. The second
// return is false for remote failures and other non-precondition errors.
func ReasonOf(err error) (Reason, bool) {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return "", false
}

func preconditionErr(reason Reason, format string, args ...any) error {
	return &PreconditionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
