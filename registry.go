package loranodes

// Node class names. These are the workflow-stable identifiers hosts use
// to serialize graphs; renaming one breaks existing workflows.
const (
	// ClassXLDBLora is the local full-strength node class.
	ClassXLDBLora = "XLDB_LoRA"

	// ClassS3BucketLora is the bucket-backed node class.
	ClassS3BucketLora = "S3Bucket_Load_LoRA"
)

// NodeFunction is the entry-point name every node class exposes.
const NodeFunction = "load_lora"

// NodeDisplayNames maps class names to UI titles.
var NodeDisplayNames = map[string]string{
	ClassXLDBLora:     "XLDB LoRA",
	ClassS3BucketLora: "S3 Bucket Load LoRA",
}

// LiveNodeClassNames maps live-preview registration keys to class names.
// Live hosts register the same classes under friendlier keys.
var LiveNodeClassNames = map[string]string{
	"XL DreamBooth LoRA": ClassXLDBLora,
	"S3 Bucket LoRA":     ClassS3BucketLora,
}

// LiveNodeDisplayNames maps live-preview registration keys to UI titles.
var LiveNodeDisplayNames = map[string]string{
	"XL DreamBooth LoRA": "XL DreamBooth LoRA",
	"S3 Bucket LoRA":     "S3 Bucket LoRA",
}

// NodeInfo describes a node class to the host.
type NodeInfo struct {
	// ClassName is the stable workflow identifier.
	ClassName string

	// DisplayName is the UI title.
	DisplayName string

	// Function is the entry-point name.
	Function string

	// ReturnTypes are the host type tags of the node's outputs.
	ReturnTypes []string
}

// Node is the surface every node class exposes to the host: class
// metadata and an input schema. Execution stays a typed method on the
// concrete node (LoraLoader.Apply, BucketLoraLoader.Apply).
type Node interface {
	// Info returns the node's class metadata.
	Info() NodeInfo

	// InputTypes returns the node's input schema.
	InputTypes() InputSpec
}

// NewNodeSet wires one instance of every node class against the same
// host collaborators, keyed by class name. Hosts register the result
// directly; tools use it to enumerate the pack.
func NewNodeSet(cfg Config, index AssetIndex, loader WeightLoader, patcher Patcher, opts ...NodeOption) (map[string]Node, error) {
	local, err := NewLoraLoader(index, loader, patcher, opts...)
	if err != nil {
		return nil, err
	}

	bucket, err := NewBucketLoraLoader(cfg, index, loader, patcher, opts...)
	if err != nil {
		return nil, err
	}

	return map[string]Node{
		ClassXLDBLora:     local,
		ClassS3BucketLora: bucket,
	}, nil
}
