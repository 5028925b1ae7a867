package loranodes

import (
	"os"
	"testing"
)

func TestBucketConfigFromEnv(t *testing.T) {
	vars := map[string]string{
		EnvBucketEndpointURL:     "https://store.example.com",
		EnvBucketAccessKeyID:     "env-key",
		EnvBucketSecretAccessKey: "env-secret",
		EnvBucketName:            "env-bucket",
		EnvBucketRegion:          "eu-west-1",
	}
	for k, v := range vars {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg := BucketConfigFromEnv()
	if cfg.EndpointURL != "https://store.example.com" {
		t.Errorf("EndpointURL = %q, want %q", cfg.EndpointURL, "https://store.example.com")
	}
	if cfg.AccessKeyID != "env-key" || cfg.SecretAccessKey != "env-secret" {
		t.Errorf("credentials = %q/%q, want env-key/env-secret", cfg.AccessKeyID, cfg.SecretAccessKey)
	}
	if cfg.Bucket != "env-bucket" {
		t.Errorf("Bucket = %q, want %q", cfg.Bucket, "env-bucket")
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, want %q", cfg.Region, "eu-west-1")
	}
}

func TestBucketConfigFromEnvUnset(t *testing.T) {
	for _, k := range []string{
		EnvBucketEndpointURL,
		EnvBucketAccessKeyID,
		EnvBucketSecretAccessKey,
		EnvBucketName,
		EnvBucketRegion,
	} {
		os.Unsetenv(k)
	}

	cfg := BucketConfigFromEnv()
	if cfg != (BucketConfig{}) {
		t.Errorf("BucketConfigFromEnv() = %+v, want zero value", cfg)
	}
}

func TestConfigFromEnv(t *testing.T) {
	os.Setenv(EnvBucketName, "models")
	defer os.Unsetenv(EnvBucketName)

	cfg := ConfigFromEnv()
	if cfg.Bucket.Bucket != "models" {
		t.Errorf("Bucket.Bucket = %q, want %q", cfg.Bucket.Bucket, "models")
	}
	if cfg.StagingDir != "" {
		t.Errorf("StagingDir = %q, want empty (resolved later)", cfg.StagingDir)
	}
}
