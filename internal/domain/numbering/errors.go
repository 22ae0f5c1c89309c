package numbering

import (
	"fmt"

	"github.com/erp/docengine/internal/domain/shared"
)

// NewTemplateNotFoundError reports that docCode has no active template
func NewTemplateNotFoundError(docCode string) error {
	return shared.NewDomainError(shared.CodeTemplateNotFound,
		fmt.Sprintf("No active document template found for %q", docCode))
}

// NewMissingResetContextError reports a reset-rule field absent from the caller context
func NewMissingResetContextError(docCode, field string) error {
	return shared.NewDomainError(shared.CodeMissingResetContext,
		fmt.Sprintf("Template %q requires context value %q for its reset rule", docCode, field))
}

// NewSequenceReservationError wraps a storage failure while reserving numbers.
// The storage error stays reachable through errors.Unwrap so callers can
// decide whether it is transient.
func NewSequenceReservationError(counterKey string, cause error) error {
	return shared.WrapDomainError(shared.CodeSequenceReservationFailed,
		fmt.Sprintf("Failed to reserve sequence for counter %q", counterKey), cause)
}
