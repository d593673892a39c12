// ABOUTME: Error taxonomy shared by storage, entry, tally and reporting.
// ABOUTME: Typed errors are matched with errors.As by the CLI and MCP layers.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError reports a form submission that failed a precondition.
// Nothing is written when it is returned.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Rule
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Rule)
}

// Invalid builds a ValidationError.
func Invalid(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

// InvalidTallyError reports tally counters that cannot be committed.
type InvalidTallyError struct {
	Success int
	Total   int
	Reason  string
}

func (e *InvalidTallyError) Error() string {
	return fmt.Sprintf("invalid tally %d/%d: %s", e.Success, e.Total, e.Reason)
}

// ReferentialIntegrityError reports a delete blocked by dependent rows,
// or a write that references a row that does not exist.
type ReferentialIntegrityError struct {
	Entity    string
	ID        string
	Dependent string
	Count     int
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("cannot delete %s: %d %s rows reference it", e.Entity, e.Count, e.Dependent)
	}
	return fmt.Sprintf("%s %s references a missing %s", e.Entity, e.ID, e.Dependent)
}

// NotFoundError reports an id that no longer exists.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// StorageInitError is returned when the store cannot be opened or migrated.
type StorageInitError struct {
	Path string
	Err  error
}

func (e *StorageInitError) Error() string {
	return fmt.Sprintf("initialize storage %s: %v", e.Path, e.Err)
}

func (e *StorageInitError) Unwrap() error { return e.Err }

// StorageResetError is returned when a reset could not complete. The
// previous data is left in place.
type StorageResetError struct {
	Err error
}

func (e *StorageResetError) Error() string {
	return fmt.Sprintf("reset storage: %v", e.Err)
}

func (e *StorageResetError) Unwrap() error { return e.Err }

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err carries a ValidationError or an
// InvalidTallyError.
func IsValidation(err error) bool {
	var ve *ValidationError
	var te *InvalidTallyError
	return errors.As(err, &ve) || errors.As(err, &te)
}
