package loranodes

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultLockTimeout is the default timeout for acquiring the staging lock.
const DefaultLockTimeout = 30 * time.Second

// StagingEnvVar overrides the staging directory when set.
const StagingEnvVar = "LORA_STAGING_DIR"

// stagingDirName is the directory created under os.TempDir() by default.
const stagingDirName = "loras"

// resolveStagingDir returns the staging directory for cfg.
// Priority: env var > Config.StagingDir > <os.TempDir()>/loras.
func resolveStagingDir(cfg Config) string {
	if envDir := os.Getenv(StagingEnvVar); envDir != "" {
		return envDir
	}
	if cfg.StagingDir != "" {
		return cfg.StagingDir
	}
	return filepath.Join(os.TempDir(), stagingDirName)
}

// stagingLockPath returns the lock file guarding dir. The lock lives next
// to the directory, not inside it, because resetStagingDir removes the
// directory wholesale.
func stagingLockPath(dir string) string {
	return dir + ".lock"
}

// resetStagingDir clears dir and recreates it empty.
// The staging area holds at most the most recently fetched file set:
// every fetch discards whatever earlier fetches left behind.
func resetStagingDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: clear staging dir: %v", ErrDownloadFailed, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create staging dir: %v", ErrDownloadFailed, err)
	}
	return nil
}

// ListStaged returns the files currently in the staging directory,
// sorted by name. A missing directory yields an empty list.
func ListStaged(dir string) ([]StagedFile, error) {
	var files []StagedFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, StagedFile{
			Name:    filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list staging dir: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
