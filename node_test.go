package loranodes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// mockIndex is an in-memory AssetIndex for tests. All categories share
// one namespace; the nodes only use LoraCategory.
type mockIndex struct {
	// paths maps name → full path.
	paths map[string]string

	// names is what Filenames returns.
	names []string

	// folders records AddFolder calls, deduplicated in order.
	folders []string

	// fullPathCalls counts FullPath invocations.
	fullPathCalls int
}

var _ AssetIndex = (*mockIndex)(nil)

func newMockIndex() *mockIndex {
	return &mockIndex{paths: make(map[string]string)}
}

func (m *mockIndex) FullPath(category, name string) (string, bool) {
	m.fullPathCalls++
	path, ok := m.paths[name]
	return path, ok
}

func (m *mockIndex) Filenames(category string) []string {
	return m.names
}

func (m *mockIndex) AddFolder(category, dir string) {
	for _, d := range m.folders {
		if d == dir {
			return
		}
	}
	m.folders = append(m.folders, dir)
}

// mockLoader records LoadWeights calls and returns the path as the
// decoded value, or a configured error.
type mockLoader struct {
	calls []string
	err   error
}

var _ WeightLoader = (*mockLoader)(nil)

func (m *mockLoader) LoadWeights(path string) (Weights, error) {
	m.calls = append(m.calls, path)
	if m.err != nil {
		return Weights{}, m.err
	}
	return Weights{Value: path}, nil
}

// mockPatcher records Apply invocations and returns marker handles.
type mockPatcher struct {
	calls             int
	lastWeights       Weights
	lastStrengthModel float64
	lastStrengthClip  float64
	err               error
}

var _ Patcher = (*mockPatcher)(nil)

func (m *mockPatcher) Apply(model Model, clip CLIP, w Weights, strengthModel, strengthClip float64) (Model, CLIP, error) {
	m.calls++
	m.lastWeights = w
	m.lastStrengthModel = strengthModel
	m.lastStrengthClip = strengthClip
	if m.err != nil {
		return Model{}, CLIP{}, m.err
	}
	return Model{Value: "patched-model"}, CLIP{Value: "patched-clip"}, nil
}

// mockDownloadCall records one DownloadObject invocation.
type mockDownloadCall struct {
	cfg  BucketConfig
	key  string
	dest string
}

// mockDownloader is an ObjectDownloader writing canned content to dest.
type mockDownloader struct {
	calls   []mockDownloadCall
	content []byte
	err     error
}

var _ ObjectDownloader = (*mockDownloader)(nil)

func (m *mockDownloader) DownloadObject(ctx context.Context, cfg BucketConfig, key, dest string) (int64, error) {
	m.calls = append(m.calls, mockDownloadCall{cfg: cfg, key: key, dest: dest})
	if m.err != nil {
		return 0, m.err
	}
	if err := os.WriteFile(dest, m.content, 0644); err != nil {
		return 0, err
	}
	return int64(len(m.content)), nil
}

func TestSiblingWeightsPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "checkpoint directory file",
			path: filepath.Join("tmp", "loras", "checkpoint-500", "model.bin"),
			want: filepath.Join("tmp", "loras", "checkpoint-500", CheckpointWeightsFile),
		},
		{
			name: "flat checkpoint name",
			path: filepath.Join("tmp", "loras", "checkpoint-500"),
			want: filepath.Join("tmp", "loras", CheckpointWeightsFile),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := siblingWeightsPath(tt.path)
			if got != tt.want {
				t.Errorf("siblingWeightsPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoadWeightsCheckpointSibling(t *testing.T) {
	cache, err := newLoadCache[string, Weights](1)
	if err != nil {
		t.Fatalf("newLoadCache() error = %v", err)
	}
	loader := &mockLoader{}

	path := filepath.Join("staging", "ckpts", "checkpoint-1000")
	if _, err := loadWeights(cache, loader, path); err != nil {
		t.Fatalf("loadWeights() error = %v", err)
	}

	want := filepath.Join("staging", "ckpts", CheckpointWeightsFile)
	if len(loader.calls) != 1 || loader.calls[0] != want {
		t.Errorf("loader calls = %v, want [%s]", loader.calls, want)
	}

	// Same checkpoint path again must hit the cache, not the loader
	if _, err := loadWeights(cache, loader, path); err != nil {
		t.Fatalf("loadWeights() second call error = %v", err)
	}
	if len(loader.calls) != 1 {
		t.Errorf("loader calls after cache hit = %d, want 1", len(loader.calls))
	}
}

func TestLoadWeightsPlainPath(t *testing.T) {
	cache, err := newLoadCache[string, Weights](1)
	if err != nil {
		t.Fatalf("newLoadCache() error = %v", err)
	}
	loader := &mockLoader{}

	path := filepath.Join("staging", "style.safetensors")
	w, err := loadWeights(cache, loader, path)
	if err != nil {
		t.Fatalf("loadWeights() error = %v", err)
	}

	if w.Value != path {
		t.Errorf("weights value = %v, want %v", w.Value, path)
	}
	if len(loader.calls) != 1 || loader.calls[0] != path {
		t.Errorf("loader calls = %v, want [%s]", loader.calls, path)
	}
}

func TestLoadWeightsDecodeError(t *testing.T) {
	cache, err := newLoadCache[string, Weights](1)
	if err != nil {
		t.Fatalf("newLoadCache() error = %v", err)
	}
	loader := &mockLoader{err: errors.New("corrupt header")}

	_, err = loadWeights(cache, loader, "staging/broken.safetensors")
	if !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("loadWeights() error = %v, want ErrDecodeFailed", err)
	}

	// A failed decode must not leave an entry behind
	if got := cache.size(); got != 0 {
		t.Errorf("cache size after failed decode = %d, want 0", got)
	}
}

func TestValidateStrength(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{name: "mid range", value: 1.0},
		{name: "lower bound", value: MinStrength},
		{name: "upper bound", value: MaxStrength},
		{name: "below range", value: -0.1, wantErr: true},
		{name: "above range", value: 2.5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStrength("strength_model", tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRef) {
					t.Errorf("validateStrength(%v) error = %v, want ErrInvalidRef", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Errorf("validateStrength(%v) error = %v, want nil", tt.value, err)
			}
		})
	}
}
