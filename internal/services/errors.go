package services

import (
	"errors"
	"fmt"
)

// GenerationFailedError is returned when the content generator errored (or
// produced schema-invalid output) and no usable cached record existed.
type GenerationFailedError struct {
	Topic string
	Cause error
}

func (e *GenerationFailedError) Error() string {
	return fmt.Sprintf("generation failed for %q: %v", e.Topic, e.Cause)
}

func (e *GenerationFailedError) Unwrap() error {
	return e.Cause
}

// AssetGenerationFailedError is returned when audio synthesis failed. Fatal
// to the call: there is no fallback for a missing asset.
type AssetGenerationFailedError struct {
	Slug  string
	Kind  string
	Cause error
}

func (e *AssetGenerationFailedError) Error() string {
	return fmt.Sprintf("audio generation failed for %s/%s: %v", e.Slug, e.Kind, e.Cause)
}

func (e *AssetGenerationFailedError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when a required subject or record does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsGenerationFailed reports whether err is a GenerationFailedError.
func IsGenerationFailed(err error) bool {
	var gf *GenerationFailedError
	return errors.As(err, &gf)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
