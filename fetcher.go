package loranodes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// driveMarker routes a reference to the URL backend. References carrying
// it are fetched over HTTP; everything else is treated as a bucket
// object key.
const driveMarker = "drive.google"

// backendKind identifies which download backend serves a reference.
type backendKind int

const (
	// backendBucket fetches the reference as a bucket object key.
	backendBucket backendKind = iota

	// backendURL fetches the reference as an HTTP(S) URL.
	backendURL
)

// pickBackend routes ref to a download backend. The substring dispatch is
// kept in one place; callers never inspect the reference themselves.
func pickBackend(ref string) backendKind {
	if strings.Contains(ref, driveMarker) {
		return backendURL
	}
	return backendBucket
}

// fetcher stages remote LoRA files in a local directory and keeps the
// host index aware of that directory.
type fetcher struct {
	// stagingDir is where fetched files land.
	stagingDir string

	// index is told about the staging dir after each reset.
	index AssetIndex

	// urls downloads HTTP(S) references.
	urls *urlFetcher

	// objects downloads bucket object keys.
	objects ObjectDownloader

	// lockTimeout bounds staging lock acquisition.
	lockTimeout time.Duration

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newFetcher creates a fetcher staging files into stagingDir.
func newFetcher(stagingDir string, index AssetIndex, urls *urlFetcher, objects ObjectDownloader, logger Logger) *fetcher {
	return &fetcher{
		stagingDir:  stagingDir,
		index:       index,
		urls:        urls,
		objects:     objects,
		lockTimeout: DefaultLockTimeout,
		logger:      logger,
	}
}

// ensureLocal stages ref under localName and returns the staged path.
//
// Every call resets the staging directory before downloading, so at most
// the most recently fetched file set exists on disk. The reset+download
// window is guarded by a cross-process lock on a sibling of the staging
// directory. The directory is (re-)registered with the host index so the
// staged file resolves like any other indexed LoRA.
func (f *fetcher) ensureLocal(ctx context.Context, ref, localName string, bucket BucketConfig) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrInvalidRef)
	}

	lock, err := newStagingLock(stagingLockPath(f.stagingDir), f.lockTimeout)
	if err != nil {
		return "", fmt.Errorf("%w: staging lock: %v", ErrDownloadFailed, err)
	}
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("%w: staging lock: %v", ErrDownloadFailed, err)
	}
	defer lock.Unlock()

	if err := resetStagingDir(f.stagingDir); err != nil {
		return "", err
	}
	f.index.AddFolder(LoraCategory, f.stagingDir)

	// Verbatim names may carry path separators; stage them as-is.
	dest := filepath.Join(f.stagingDir, filepath.FromSlash(localName))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("%w: create staging subdir: %v", ErrDownloadFailed, err)
	}

	var n int64
	switch pickBackend(ref) {
	case backendURL:
		n, err = f.urls.fetch(ctx, ref, dest)
	default:
		n, err = f.objects.DownloadObject(ctx, bucket, ref, dest)
	}
	if err != nil {
		return "", err
	}

	if f.logger != nil {
		f.logger.Info("staged lora", "ref", ref, "path", dest, "bytes", n)
	}

	return dest, nil
}
