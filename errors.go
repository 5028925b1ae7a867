package loranodes

import "errors"

// Sentinel errors for LoRA node operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrInvalidRef indicates an unusable LoRA reference: an empty ref,
	// a name absent from the host index, or a strength outside [0, 2].
	ErrInvalidRef = errors.New("loranodes: invalid lora reference")

	// ErrDownloadFailed indicates a remote LoRA could not be staged locally,
	// whether the transport failed or the staging directory could not be prepared.
	ErrDownloadFailed = errors.New("loranodes: download failed")

	// ErrDecodeFailed indicates a staged file could not be decoded into
	// LoRA weights by the host loader.
	ErrDecodeFailed = errors.New("loranodes: cannot decode lora weights")
)
