// ABOUTME: Tests for the error taxonomy.
// ABOUTME: Covers messages and errors.As matching through wrapping.
package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferentialIntegrityMessageNamesDependency(t *testing.T) {
	err := &ReferentialIntegrityError{Entity: "player", ID: "abc", Dependent: "result", Count: 3}
	assert.Equal(t, "cannot delete player: 3 result rows reference it", err.Error())
}

func TestMatchingThroughWrap(t *testing.T) {
	wrapped := fmt.Errorf("delete drill: %w", NotFound("drill", "1234"))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))

	wrapped = fmt.Errorf("commit: %w", &InvalidTallyError{Success: 4, Total: 3, Reason: "success exceeds total"})
	assert.True(t, IsValidation(wrapped))
}

func TestStorageErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	assert.ErrorIs(t, &StorageInitError{Path: "/x.db", Err: cause}, cause)
	assert.ErrorIs(t, &StorageResetError{Err: cause}, cause)
}
