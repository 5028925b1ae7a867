package loranodes

import "testing"

func TestBucketConfigOverride(t *testing.T) {
	base := BucketConfig{
		EndpointURL:     "https://default.example.com",
		AccessKeyID:     "default-key",
		SecretAccessKey: "default-secret",
		Bucket:          "default-bucket",
		Region:          "us-east-1",
	}

	tests := []struct {
		name     string
		override BucketConfig
		want     BucketConfig
	}{
		{
			name:     "empty override keeps base",
			override: BucketConfig{},
			want:     base,
		},
		{
			name: "full override replaces everything",
			override: BucketConfig{
				EndpointURL:     "https://other.example.com",
				AccessKeyID:     "other-key",
				SecretAccessKey: "other-secret",
				Bucket:          "other-bucket",
				Region:          "eu-central-1",
			},
			want: BucketConfig{
				EndpointURL:     "https://other.example.com",
				AccessKeyID:     "other-key",
				SecretAccessKey: "other-secret",
				Bucket:          "other-bucket",
				Region:          "eu-central-1",
			},
		},
		{
			name:     "partial override merges per field",
			override: BucketConfig{Bucket: "other-bucket"},
			want: BucketConfig{
				EndpointURL:     "https://default.example.com",
				AccessKeyID:     "default-key",
				SecretAccessKey: "default-secret",
				Bucket:          "other-bucket",
				Region:          "us-east-1",
			},
		},
		{
			name: "credentials override keeps endpoint",
			override: BucketConfig{
				AccessKeyID:     "other-key",
				SecretAccessKey: "other-secret",
			},
			want: BucketConfig{
				EndpointURL:     "https://default.example.com",
				AccessKeyID:     "other-key",
				SecretAccessKey: "other-secret",
				Bucket:          "default-bucket",
				Region:          "us-east-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.override(tt.override)
			if got != tt.want {
				t.Errorf("override() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBucketConfigOverrideDoesNotMutateBase(t *testing.T) {
	base := BucketConfig{Bucket: "default-bucket"}
	_ = base.override(BucketConfig{Bucket: "other-bucket"})

	if base.Bucket != "default-bucket" {
		t.Errorf("base.Bucket = %q, want %q", base.Bucket, "default-bucket")
	}
}
