package loranodes

import (
	"fmt"
	"path/filepath"
)

// WeightLoader decodes a serialized weight file into the host's
// in-memory form. The host supplies the implementation; this package
// never inspects tensor data.
type WeightLoader interface {
	// LoadWeights reads and decodes the weight file at path.
	LoadWeights(path string) (Weights, error)
}

// Patcher applies decoded LoRA weights onto a model and CLIP pair,
// returning patched copies. The host supplies the implementation.
type Patcher interface {
	// Apply patches model and clip with weights at the given strengths.
	Apply(model Model, clip CLIP, weights Weights, strengthModel, strengthClip float64) (Model, CLIP, error)
}

// siblingWeightsPath maps a checkpoint path to the weight file actually
// read for it. Checkpoint directories store their LoRA weights under a
// fixed filename next to the referenced path.
func siblingWeightsPath(path string) string {
	return filepath.Join(filepath.Dir(path), CheckpointWeightsFile)
}

// loadWeights resolves path through the cache, decoding on a miss.
// Checkpoint paths decode their sibling weights file, but the cache key
// stays the caller's path so repeated selections hit regardless of form.
func loadWeights(cache *loadCache[string, Weights], loader WeightLoader, path string) (Weights, error) {
	return cache.getOrLoad(path, func(p string) (Weights, error) {
		file := p
		if hasCheckpointMarker(p) {
			file = siblingWeightsPath(p)
		}
		w, err := loader.LoadWeights(file)
		if err != nil {
			return Weights{}, fmt.Errorf("decoding %s: %w: %v", file, ErrDecodeFailed, err)
		}
		return w, nil
	})
}

// validateStrength checks a patch strength against the schema bounds.
func validateStrength(name string, v float64) error {
	if v < MinStrength || v > MaxStrength {
		return fmt.Errorf("%w: %s %v outside [%v, %v]", ErrInvalidRef, name, v, MinStrength, MaxStrength)
	}
	return nil
}
