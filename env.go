package loranodes

import "os"

// Environment variables supplying the default bucket config. The names
// match the serverless deployment convention the node pack ships with.
const (
	// EnvBucketEndpointURL names the S3-compatible endpoint.
	EnvBucketEndpointURL = "BUCKET_ENDPOINT_URL"

	// EnvBucketAccessKeyID names the static access key.
	EnvBucketAccessKeyID = "BUCKET_ACCESS_KEY_ID"

	// EnvBucketSecretAccessKey names the static secret key.
	EnvBucketSecretAccessKey = "BUCKET_SECRET_ACCESS_KEY"

	// EnvBucketName names the bucket objects are fetched from.
	EnvBucketName = "BUCKET_NAME"

	// EnvBucketRegion names the bucket region. Optional; defaults to
	// DefaultBucketRegion.
	EnvBucketRegion = "BUCKET_REGION"
)

// BucketConfigFromEnv reads the default bucket config from the process
// environment. Unset variables leave fields empty; node inputs can fill
// them per call (see BucketLoraLoader.Apply).
func BucketConfigFromEnv() BucketConfig {
	return BucketConfig{
		EndpointURL:     os.Getenv(EnvBucketEndpointURL),
		AccessKeyID:     os.Getenv(EnvBucketAccessKeyID),
		SecretAccessKey: os.Getenv(EnvBucketSecretAccessKey),
		Bucket:          os.Getenv(EnvBucketName),
		Region:          os.Getenv(EnvBucketRegion),
	}
}

// ConfigFromEnv builds a Config from the process environment. StagingDir
// is left empty; the staging dir still honors StagingEnvVar and the
// built-in default when resolved.
func ConfigFromEnv() Config {
	return Config{
		Bucket: BucketConfigFromEnv(),
	}
}
