package loranodes

import "testing"

func TestNodeClassNames(t *testing.T) {
	// Workflow-stable identifiers; a rename here breaks saved graphs.
	if ClassXLDBLora != "XLDB_LoRA" {
		t.Errorf("ClassXLDBLora = %q, want %q", ClassXLDBLora, "XLDB_LoRA")
	}
	if ClassS3BucketLora != "S3Bucket_Load_LoRA" {
		t.Errorf("ClassS3BucketLora = %q, want %q", ClassS3BucketLora, "S3Bucket_Load_LoRA")
	}
	if NodeFunction != "load_lora" {
		t.Errorf("NodeFunction = %q, want %q", NodeFunction, "load_lora")
	}
}

func TestNodeDisplayNames(t *testing.T) {
	tests := []struct {
		class string
		want  string
	}{
		{class: ClassXLDBLora, want: "XLDB LoRA"},
		{class: ClassS3BucketLora, want: "S3 Bucket Load LoRA"},
	}

	for _, tt := range tests {
		if got := NodeDisplayNames[tt.class]; got != tt.want {
			t.Errorf("NodeDisplayNames[%s] = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestLiveNodeClassNames(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "XL DreamBooth LoRA", want: ClassXLDBLora},
		{key: "S3 Bucket LoRA", want: ClassS3BucketLora},
	}

	for _, tt := range tests {
		if got := LiveNodeClassNames[tt.key]; got != tt.want {
			t.Errorf("LiveNodeClassNames[%q] = %q, want %q", tt.key, got, tt.want)
		}
		// Live keys display as themselves.
		if got := LiveNodeDisplayNames[tt.key]; got != tt.key {
			t.Errorf("LiveNodeDisplayNames[%q] = %q, want %q", tt.key, got, tt.key)
		}
	}
}

func TestNewNodeSet(t *testing.T) {
	cfg := Config{StagingDir: t.TempDir()}
	nodes, err := NewNodeSet(cfg, newMockIndex(), &mockLoader{}, &mockPatcher{}, WithObjectDownloader(&mockDownloader{}))
	if err != nil {
		t.Fatalf("NewNodeSet() error = %v", err)
	}

	if len(nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(nodes))
	}

	for class, node := range nodes {
		info := node.Info()
		if info.ClassName != class {
			t.Errorf("Info().ClassName = %q, want map key %q", info.ClassName, class)
		}
		if info.Function != NodeFunction {
			t.Errorf("Info().Function = %q, want %q", info.Function, NodeFunction)
		}
		if len(info.ReturnTypes) != 2 || info.ReturnTypes[0] != "MODEL" || info.ReturnTypes[1] != "CLIP" {
			t.Errorf("Info().ReturnTypes = %v, want [MODEL CLIP]", info.ReturnTypes)
		}
		if len(node.InputTypes().Required) == 0 {
			t.Errorf("%s InputTypes() has no required fields", class)
		}
	}
}

func TestNewNodeSetValidation(t *testing.T) {
	if _, err := NewNodeSet(Config{}, nil, &mockLoader{}, &mockPatcher{}); err == nil {
		t.Error("NewNodeSet() with nil index error = nil, want error")
	}
	if _, err := NewNodeSet(Config{}, newMockIndex(), nil, &mockPatcher{}); err == nil {
		t.Error("NewNodeSet() with nil loader error = nil, want error")
	}
}
