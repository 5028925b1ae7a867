package loranodes

import (
	"context"
	"errors"
	"fmt"
)

// LoraLoader applies a LoRA from the host's local index to a model and
// CLIP pair at full strength. It backs the XLDB_LoRA node class: the
// LoRA is picked from the indexed weight files by name.
//
// An instance keeps a single decoded weight set resident (see loadCache)
// so re-running a graph with the same selection skips the decode.
// Instances are not safe for concurrent use; the host executes one node
// at a time.
type LoraLoader struct {
	// index resolves dropdown selections to paths.
	index AssetIndex

	// loader decodes weight files.
	loader WeightLoader

	// patcher applies decoded weights to the model pair.
	patcher Patcher

	// cache holds the most recently decoded weight set.
	cache *loadCache[string, Weights]

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// Ensure LoraLoader implements Node.
var _ Node = (*LoraLoader)(nil)

// NewLoraLoader creates the local LoRA node.
// Returns an error if index, loader, or patcher is nil.
func NewLoraLoader(index AssetIndex, loader WeightLoader, patcher Patcher, opts ...NodeOption) (*LoraLoader, error) {
	if index == nil {
		return nil, errors.New("loranodes: index is required")
	}
	if loader == nil {
		return nil, errors.New("loranodes: loader is required")
	}
	if patcher == nil {
		return nil, errors.New("loranodes: patcher is required")
	}

	ncfg := newNodeConfig()
	for _, opt := range opts {
		opt(ncfg)
	}

	cache, err := newLoadCache[string, Weights](ncfg.cacheCapacity)
	if err != nil {
		return nil, err
	}

	return &LoraLoader{
		index:   index,
		loader:  loader,
		patcher: patcher,
		cache:   cache,
		logger:  ncfg.logger,
	}, nil
}

// Apply patches model and clip with the indexed LoRA named loraName at
// strength 1.0 for both the model and CLIP.
//
// Passing NoneSelection or an empty name returns the inputs unchanged
// without touching the index, loader, or patcher. A name absent from the
// index yields ErrInvalidRef.
func (n *LoraLoader) Apply(ctx context.Context, model Model, clip CLIP, loraName string) (Model, CLIP, error) {
	if loraName == "" || loraName == NoneSelection {
		return model, clip, nil
	}

	path, ok := n.index.FullPath(LoraCategory, loraName)
	if !ok {
		return Model{}, CLIP{}, fmt.Errorf("%w: %q is not an indexed lora", ErrInvalidRef, loraName)
	}

	weights, err := loadWeights(n.cache, n.loader, path)
	if err != nil {
		return Model{}, CLIP{}, err
	}

	if n.logger != nil {
		n.logger.Debug("applying lora", "name", loraName, "path", path)
	}

	return n.patcher.Apply(model, clip, weights, 1.0, 1.0)
}

// Info returns the node's class metadata.
func (n *LoraLoader) Info() NodeInfo {
	return NodeInfo{
		ClassName:   ClassXLDBLora,
		DisplayName: NodeDisplayNames[ClassXLDBLora],
		Function:    NodeFunction,
		ReturnTypes: []string{"MODEL", "CLIP"},
	}
}

// InputTypes returns the node's input schema. The LoRA dropdown lists
// the indexed weight files with NoneSelection first.
func (n *LoraLoader) InputTypes() InputSpec {
	choices := append([]string{NoneSelection}, n.index.Filenames(LoraCategory)...)
	return InputSpec{
		Required: []Field{
			typeField("model", "MODEL"),
			typeField("clip", "CLIP"),
			comboField("lora_name", choices),
		},
	}
}
