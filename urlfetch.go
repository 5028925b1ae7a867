package loranodes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// progressLogInterval is how many bytes pass between download progress
// log lines.
const progressLogInterval = 8 << 20

// urlFetcher downloads LoRA weight files over HTTP(S). It is the backend
// behind Google Drive style references; bucket keys go through
// ObjectDownloader instead.
type urlFetcher struct {
	// httpClient is used for all download requests.
	httpClient HTTPClient

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// newURLFetcher creates a URL fetcher using the given client.
func newURLFetcher(client HTTPClient, logger Logger) *urlFetcher {
	return &urlFetcher{
		httpClient: client,
		logger:     logger,
	}
}

// fetch downloads rawURL to dest and returns the number of bytes written.
// The body streams to dest+".partial" and is renamed into place on
// success, so a failed download never leaves a truncated file under the
// final name.
func (u *urlFetcher) fetch(ctx context.Context, rawURL, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: creating request: %v", ErrDownloadFailed, err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading %s: %w: %v", rawURL, ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("downloading %s: status %d: %w", rawURL, resp.StatusCode, ErrDownloadFailed)
	}

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("%w: creating staging file: %v", ErrDownloadFailed, err)
	}

	// Wrap body with progress reader so long downloads surface in logs
	var reader io.Reader = resp.Body
	if u.logger != nil {
		var total, logged int64
		reader = &progressReader{reader: resp.Body, onProgress: func(delta int64) {
			total += delta
			if total-logged >= progressLogInterval {
				logged = total
				u.logger.Debug("download progress", "url", rawURL, "bytes", total)
			}
		}}
	}

	n, err := io.Copy(out, reader)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("downloading %s: %w: %v", rawURL, ErrDownloadFailed, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("%w: placing staging file: %v", ErrDownloadFailed, err)
	}

	return n, nil
}

// progressReader wraps an io.Reader and reports progress as bytes are read.
type progressReader struct {
	reader     io.Reader
	onProgress func(delta int64)
}

func (pr *progressReader) Read(p []byte) (n int, err error) {
	n, err = pr.reader.Read(p)
	if n > 0 && pr.onProgress != nil {
		pr.onProgress(int64(n))
	}
	return
}
