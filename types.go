package loranodes

import "time"

// Naming conventions shared by the resolver and the load policy.
const (
	// WeightFileSuffix is the extension of serialized LoRA weight files.
	// References already carrying it are staged under their own name.
	WeightFileSuffix = ".safetensors"

	// CheckpointMarker flags a reference or path as a training checkpoint
	// directory. Checkpoint weights live in a fixed sibling file rather
	// than in the referenced path itself.
	CheckpointMarker = "checkpoint"

	// CheckpointWeightsFile is the weight file read from a checkpoint
	// directory in place of the referenced path.
	CheckpointWeightsFile = "pytorch_lora_weights.bin"

	// NoneSelection is the dropdown entry meaning "apply no LoRA".
	// Nodes treat it (and the empty string) as a no-op.
	NoneSelection = "None"

	// LoraCategory is the host index category for LoRA weight files.
	LoraCategory = "loras"
)

// Strength bounds accepted by the bucket node, matching its input schema.
const (
	// MinStrength is the lowest accepted patch strength.
	MinStrength = 0.0

	// MaxStrength is the highest accepted patch strength.
	MaxStrength = 2.0
)

// Model is an opaque handle to the host's diffusion model.
// Nodes never inspect it; they pass it through the Patcher.
type Model struct {
	// Value is the host's model object.
	Value any
}

// CLIP is an opaque handle to the host's CLIP text encoder.
type CLIP struct {
	// Value is the host's CLIP object.
	Value any
}

// Weights is an opaque handle to a decoded set of LoRA weights.
type Weights struct {
	// Value is the host's decoded weight object.
	Value any
}

// Config configures the node pack.
type Config struct {
	// StagingDir is where remotely fetched LoRA files are placed.
	// If empty, uses <os.TempDir()>/loras.
	// Can also be set via environment variable: LORA_STAGING_DIR
	StagingDir string

	// Bucket holds the default bucket credentials and endpoint.
	// Per-request overrides from node inputs are merged on top.
	Bucket BucketConfig
}

// BucketConfig identifies an S3-compatible bucket and how to reach it.
type BucketConfig struct {
	// EndpointURL is the S3-compatible endpoint, e.g. "https://storage.example.com".
	// If empty, the SDK's default AWS endpoint resolution applies.
	EndpointURL string

	// AccessKeyID is the static access key. If empty (together with
	// SecretAccessKey), the SDK's default credential chain applies.
	AccessKeyID string

	// SecretAccessKey is the static secret key paired with AccessKeyID.
	SecretAccessKey string

	// Bucket is the bucket name objects are fetched from.
	Bucket string

	// Region is the bucket region. If empty, DefaultBucketRegion is used.
	Region string
}

// override returns a copy of b with every non-empty field of o applied.
// Node inputs override environment defaults without touching the process
// environment.
func (b BucketConfig) override(o BucketConfig) BucketConfig {
	if o.EndpointURL != "" {
		b.EndpointURL = o.EndpointURL
	}
	if o.AccessKeyID != "" {
		b.AccessKeyID = o.AccessKeyID
	}
	if o.SecretAccessKey != "" {
		b.SecretAccessKey = o.SecretAccessKey
	}
	if o.Bucket != "" {
		b.Bucket = o.Bucket
	}
	if o.Region != "" {
		b.Region = o.Region
	}
	return b
}

// StagedFile describes one file in the staging directory.
type StagedFile struct {
	// Name is the path relative to the staging directory.
	Name string

	// Size is the file size in bytes.
	Size int64

	// ModTime is when the file was last written.
	ModTime time.Time
}
