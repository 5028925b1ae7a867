package loranodes

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// bucketDownloader fetches objects from an S3-compatible bucket. It is
// the default ObjectDownloader behind the bucket node.
type bucketDownloader struct {
	// newService builds the S3 client for a bucket config.
	// Swappable so tests can run against a fake service.
	newService func(cfg BucketConfig) (s3iface.S3API, error)

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// Ensure bucketDownloader implements ObjectDownloader.
var _ ObjectDownloader = (*bucketDownloader)(nil)

// newBucketDownloader creates an SDK-backed downloader.
func newBucketDownloader(logger Logger) *bucketDownloader {
	return &bucketDownloader{
		newService: newBucketService,
		logger:     logger,
	}
}

// newBucketService builds an S3 client for the bucket described by cfg.
// Static credentials and a custom endpoint are used when present;
// otherwise the SDK's default chain and endpoint resolution apply.
func newBucketService(cfg BucketConfig) (s3iface.S3API, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultBucketRegion
	}

	awsCfg := aws.NewConfig().WithRegion(region)
	if cfg.EndpointURL != "" {
		// Path-style addressing keeps S3-compatible stores (R2, MinIO,
		// RunPod volumes) working without per-bucket DNS.
		awsCfg = awsCfg.WithEndpoint(cfg.EndpointURL).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsCfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket session: %w", err)
	}

	return s3.New(sess), nil
}

// DownloadObject implements ObjectDownloader. The object is written
// directly to dest; on failure the partial file is removed.
func (b *bucketDownloader) DownloadObject(ctx context.Context, cfg BucketConfig, key, dest string) (int64, error) {
	if cfg.Bucket == "" {
		return 0, fmt.Errorf("%w: bucket name not configured", ErrDownloadFailed)
	}

	service, err := b.newService(cfg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: creating staging file: %v", ErrDownloadFailed, err)
	}

	d := s3manager.NewDownloaderWithClient(service)
	n, err := d.DownloadWithContext(ctx, out, &s3.GetObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
	})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		if awsErr, ok := err.(awserr.RequestFailure); ok && awsErr.StatusCode() == 404 {
			return 0, fmt.Errorf("object %q not found in bucket %q: %w", key, cfg.Bucket, ErrDownloadFailed)
		}
		return 0, fmt.Errorf("downloading %q from bucket %q: %w: %v", key, cfg.Bucket, ErrDownloadFailed, err)
	}

	return n, nil
}
