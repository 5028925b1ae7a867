package loranodes

import (
	"context"
	"net/http"
)

// Cache constants for decoded weight retention.
const (
	// DefaultCacheCapacity is the number of decoded weight sets a node
	// keeps resident. One matches the host's sequential execution: the
	// weights applied last are the only ones worth keeping.
	DefaultCacheCapacity = 1
)

// DefaultBucketRegion is used when BucketConfig.Region is empty.
// S3-compatible endpoints ignore it but the SDK requires a value.
const DefaultBucketRegion = "us-east-1"

// NodeOption configures a node constructor.
type NodeOption func(*nodeConfig)

// nodeConfig holds configuration shared by node construction.
type nodeConfig struct {
	// httpClient is used for URL downloads.
	httpClient HTTPClient

	// downloader fetches objects from the configured bucket.
	downloader ObjectDownloader

	// logger receives diagnostic log messages.
	logger Logger

	// cacheCapacity is the number of decoded weight sets kept resident.
	cacheCapacity int
}

// newNodeConfig returns a nodeConfig with default values.
func newNodeConfig() *nodeConfig {
	return &nodeConfig{
		httpClient:    http.DefaultClient,
		cacheCapacity: DefaultCacheCapacity,
	}
}

// WithHTTPClient sets a custom HTTP client for URL downloads.
// Useful for testing with mock servers or customizing timeouts.
// If not set, http.DefaultClient is used.
func WithHTTPClient(client HTTPClient) NodeOption {
	return func(c *nodeConfig) {
		c.httpClient = client
	}
}

// WithObjectDownloader sets a custom bucket backend.
// Useful for testing without a reachable bucket.
// If not set, an aws-sdk-go backed downloader is used.
func WithObjectDownloader(d ObjectDownloader) NodeOption {
	return func(c *nodeConfig) {
		c.downloader = d
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) NodeOption {
	return func(c *nodeConfig) {
		c.logger = logger
	}
}

// WithCacheCapacity sets how many decoded weight sets a node keeps.
// Values below 1 are clamped to 1. Default is DefaultCacheCapacity.
func WithCacheCapacity(n int) NodeOption {
	return func(c *nodeConfig) {
		if n < 1 {
			n = 1
		}
		c.cacheCapacity = n
	}
}

// HTTPClient is the interface for HTTP operations.
// *http.Client satisfies this interface.
type HTTPClient interface {
	// Do sends an HTTP request and returns an HTTP response.
	Do(req *http.Request) (*http.Response, error)
}

// ObjectDownloader fetches one object from a bucket into a local file.
// The default implementation speaks S3; tests substitute fakes.
// Implementations should return errors wrapping ErrDownloadFailed so
// callers can classify failures with errors.Is.
type ObjectDownloader interface {
	// DownloadObject writes the object at key in the bucket described by
	// cfg to the file at dest, returning the number of bytes written.
	DownloadObject(ctx context.Context, cfg BucketConfig, key, dest string) (int64, error)
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap, logrus, and other structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
