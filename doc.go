// Package loranodes implements the SDXL DreamBooth LoRA custom-node pack:
// node classes that apply LoRA weight patches to a diffusion model and
// CLIP pair inside a ComfyUI-style host.
//
// The pack exports two node classes:
//
//  1. XLDB_LoRA (LoraLoader) - applies a LoRA picked from the host's
//     local index at full strength.
//
//  2. S3Bucket_Load_LoRA (BucketLoraLoader) - accepts an S3 object key or
//     a Google Drive style URL, stages the file into a local directory on
//     demand, and applies it at user-chosen strengths.
//
// Hosts supply their machinery through three interfaces: AssetIndex
// (file lookup and registration), WeightLoader (decoding weight files),
// and Patcher (applying decoded weights). NewNodeSet wires both classes
// against one set of collaborators; NewCommand exposes the staging
// machinery as an embeddable Cobra subcommand tree for tools.
//
// # Thread Safety
//
// Node instances are not safe for concurrent use. Hosts execute one node
// at a time, and the single-slot weight cache and resolver memo rely on
// that. Cross-process staging conflicts are handled with a file lock
// around the staging directory reset.
//
// # Staging
//
// Remote fetches land in a staging directory that is cleared on every
// fetch, so at most the most recently fetched file set occupies disk.
// The directory defaults to <os.TempDir()>/loras and can be overridden
// via Config.StagingDir or the LORA_STAGING_DIR environment variable.
//
// # Bucket access
//
// The bucket backend speaks the S3 API through aws-sdk-go and works with
// S3-compatible stores (custom endpoint, path-style addressing). Default
// credentials come from BUCKET_* environment variables; node inputs can
// override them per call without touching the process environment.
package loranodes
