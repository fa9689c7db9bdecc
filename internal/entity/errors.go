package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/imagehub/imagehub/pkg/types/errs"
)

// Error catalogue for the image pipeline. Codes are stable; callers
// compare with errors.Is against the constructors' output.

var (
	ErrEmptyPath = errs.Validation(
		"Image.Size.EmptyPath", "Image rendition storage path must not be empty")

	ErrRecordSaveFailed = errs.Failure(
		"Image.Record.SaveFailed", "Image record save failed")

	ErrFileUploadFailed = errs.Failure(
		"Image.File.UploadFailed", "Image file upload failed")

	ErrFileReadFailed = errs.Failure(
		"Image.File.ReadFailed", "Image file content could not be read")

	ErrFileDecodeFailed = errs.Failure(
		"Image.File.DecodeFailed", "Image file could not be decoded")
)

func ErrInvalidHeight(height int) *errs.Error {
	return errs.Validation(
		"Image.File.InvalidHeight", fmt.Sprintf("Image file resize height '%d' is invalid", height))
}

func ErrUnsupportedMimeType(mimeType string) *errs.Error {
	return errs.Validation(
		"Image.File.UnsupportedMimeType", fmt.Sprintf("Image mime type '%s' is not supported", mimeType))
}

func ErrRecordNotFound(id uuid.UUID) *errs.Error {
	return errs.NotFound(
		"Image.Record.NotFound", fmt.Sprintf("Image record with id '%s' not found", id))
}

func ErrFileNotFound(id uuid.UUID, height int) *errs.Error {
	return errs.NotFound(
		"Image.File.NotFound", fmt.Sprintf("Image file with id '%s' and height '%d' not found", id, height))
}

func ErrRecordRetrievalFailed(id uuid.UUID) *errs.Error {
	return errs.Failure(
		"Image.Record.RetrievalFailed", fmt.Sprintf("Image record with id '%s' retrieval failed", id))
}

func ErrRecordDeletionFailed(id uuid.UUID) *errs.Error {
	return errs.Failure(
		"Image.Record.DeletionFailed", fmt.Sprintf("Image record with id '%s' deletion failed", id))
}

func ErrFileDeletionFailed(key string) *errs.Error {
	return errs.Failure(
		"Image.File.DeletionFailed", fmt.Sprintf("Image file with key '%s' deletion failed", key))
}

func ErrFileRetrievalFailed(key string) *errs.Error {
	return errs.Failure(
		"Image.File.RetrievalFailed", fmt.Sprintf("Image file with key '%s' retrieval failed", key))
}

func ErrFileListFailed(prefix string) *errs.Error {
	return errs.Failure(
		"Image.File.ListFailed", fmt.Sprintf("Image files with prefix '%s' listing failed", prefix))
}

func ErrPreSignedURLFailed(key string) *errs.Error {
	return errs.Failure(
		"Image.File.PreSignedUrlGenerationFailed",
		fmt.Sprintf("Image file with key '%s' pre signed url generation failed", key))
}

func ErrMessageEnqueueFailed(id uuid.UUID) *errs.Error {
	return errs.Failure(
		"Image.Message.EnqueueFailed", fmt.Sprintf("Message with image id '%s' queue enqueue failed", id))
}
