package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/imagehub/imagehub/pkg/types/errs"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	require.Equal(t, errs.KindNone, errs.KindOf(nil))
	require.Equal(t, errs.KindValidation, errs.KindOf(errs.Validation("X", "x")))
	require.Equal(t, errs.KindNotFound, errs.KindOf(errs.NotFound("X", "x")))
	require.Equal(t, errs.KindFailure, errs.KindOf(errs.Failure("X", "x")))

	// kinds survive fmt wrapping
	wrapped := fmt.Errorf("step one: %w", errs.NotFound("X", "x"))
	require.Equal(t, errs.KindNotFound, errs.KindOf(wrapped))

	// unknown errors count as infrastructure failures
	require.Equal(t, errs.KindFailure, errs.KindOf(errors.New("boom")))
}

func TestKindOfValidationAggregate(t *testing.T) {
	// the aggregate reads as Validation even when every child is a Failure
	children := []*errs.Error{
		errs.Failure("Delete.One", "one"),
		errs.Failure("Delete.Two", "two"),
	}
	err := fmt.Errorf("delete: %w", errs.NewValidationError(children))

	require.Equal(t, errs.KindValidation, errs.KindOf(err))

	var ve *errs.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Errors, 2)
}

func TestErrorIsMatchesCodeAndKind(t *testing.T) {
	prototype := errs.NotFound("Image.Record.NotFound", "Image record not found")
	instance := errs.NotFound("Image.Record.NotFound", "Image record with id 'abc' not found")

	require.ErrorIs(t, fmt.Errorf("load: %w", instance), prototype)
	require.NotErrorIs(t, instance, errs.Failure("Image.Record.NotFound", "same code, other kind"))
}

func TestWithCauseKeepsChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := errs.Failure("Image.File.UploadFailed", "Image file upload failed").WithCause(cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")

	// the original catalogue entry is untouched
	base := errs.Failure("Image.File.UploadFailed", "Image file upload failed")
	require.NotErrorIs(t, base, cause)
}
