// Command lora-nodes is a CLI harness for the loranodes package.
// It stages remote LoRA files and inspects the node pack without a host.
//
// Configuration is loaded from a .env file (if present) and environment
// variables:
//   - BUCKET_ENDPOINT_URL: S3-compatible endpoint (optional)
//   - BUCKET_ACCESS_KEY_ID / BUCKET_SECRET_ACCESS_KEY: static credentials (optional)
//   - BUCKET_NAME: bucket objects are fetched from
//   - BUCKET_REGION: bucket region (optional)
//   - LORA_STAGING_DIR: override for the staging directory (optional)
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	loranodes "github.com/komojini/ComfyUI-SDXL-DreamBooth-LoRA-CustomNodes"
)

// CLI exit codes for standardized error reporting.
const (
	// ExitSuccess indicates the operation completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitInvalidArgs indicates invalid command line arguments or an
	// unusable LoRA reference.
	ExitInvalidArgs = 2

	// ExitDownloadFailed indicates a remote LoRA could not be staged.
	ExitDownloadFailed = 3

	// ExitDecodeFailed indicates a staged file could not be decoded.
	ExitDecodeFailed = 4
)

func main() {
	// Populate the environment from a .env file when one exists.
	// Existing variables are never overwritten.
	_ = godotenv.Load()

	cfg := loranodes.ConfigFromEnv()

	cmd := loranodes.NewCommand(cfg)
	if err := cmd.Execute(); err != nil {
		os.Exit(exitCodeFromError(err))
	}
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, loranodes.ErrInvalidRef):
		return ExitInvalidArgs
	case errors.Is(err, loranodes.ErrDownloadFailed):
		return ExitDownloadFailed
	case errors.Is(err, loranodes.ErrDecodeFailed):
		return ExitDecodeFailed
	default:
		return ExitGeneralError
	}
}
