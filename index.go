package loranodes

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetIndex is the host's view of model files on disk, keyed by
// category ("loras", "checkpoints", ...). The host supplies one; nodes
// use it to resolve dropdown selections and to register the staging
// directory after a fetch.
type AssetIndex interface {
	// FullPath resolves an indexed name within a category to an
	// absolute path. ok is false when the name is not indexed.
	FullPath(category, name string) (path string, ok bool)

	// Filenames lists the indexed names within a category, relative to
	// their registered directories.
	Filenames(category string) []string

	// AddFolder registers dir as an additional source for category.
	// Registering the same directory twice has no effect.
	AddFolder(category, dir string)
}

// weightFileSuffixes are the extensions Filenames considers weight files.
var weightFileSuffixes = []string{".safetensors", ".ckpt", ".pt", ".pth", ".bin"}

// DirIndex is a directory-backed AssetIndex for hosts and tools that do
// not bring their own index. Categories map to ordered directory lists;
// earlier registrations win on name collisions.
//
// Not safe for concurrent use.
type DirIndex struct {
	// dirs maps category → registered directories, in registration order.
	dirs map[string][]string
}

var _ AssetIndex = (*DirIndex)(nil)

// NewDirIndex returns an empty index.
func NewDirIndex() *DirIndex {
	return &DirIndex{dirs: make(map[string][]string)}
}

// AddFolder registers dir as a source for category.
func (x *DirIndex) AddFolder(category, dir string) {
	for _, d := range x.dirs[category] {
		if d == dir {
			return
		}
	}
	x.dirs[category] = append(x.dirs[category], dir)
}

// FullPath resolves name against the category's directories in
// registration order, returning the first path that exists as a regular
// file.
func (x *DirIndex) FullPath(category, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, dir := range x.dirs[category] {
		path := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

// Filenames walks the category's directories and returns the relative
// paths of all weight files, sorted. Directories that cannot be read are
// skipped.
func (x *DirIndex) Filenames(category string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, dir := range x.dirs[category] {
		root := dir
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if !isWeightFile(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				names = append(names, rel)
			}
			return nil
		})
	}

	sort.Strings(names)
	return names
}

// isWeightFile reports whether name carries a known weight extension.
func isWeightFile(name string) bool {
	for _, suffix := range weightFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
