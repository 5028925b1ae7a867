package loranodes

import (
	"strings"

	"github.com/google/uuid"
)

// hasCheckpointMarker reports whether s names a training checkpoint.
// The substring test is deliberately broad: checkpoint references keep
// their verbatim name, and checkpoint paths are loaded through their
// sibling weights file (see siblingWeightsPath). Every caller routes
// through this one predicate so the convention can change in one place.
func hasCheckpointMarker(s string) bool {
	return strings.Contains(s, CheckpointMarker)
}

// nameResolver maps remote references to deterministic local filenames.
// Each resolved name is memoized for the life of the resolver, so a
// reference resolves to the same file across repeated executions even
// when the name had to be minted.
//
// Not safe for concurrent use; node instances run single-threaded.
type nameResolver struct {
	// names memoizes ref → local filename.
	names map[string]string
}

// newNameResolver returns an empty resolver.
func newNameResolver() *nameResolver {
	return &nameResolver{names: make(map[string]string)}
}

// localName returns the staging filename for ref.
//
// References that already name a weight file (WeightFileSuffix) or a
// checkpoint keep their verbatim name, slashes included. Opaque
// references (URLs, bare object keys) get a freshly minted
// "<uuid>.safetensors" name, minted once per reference.
func (r *nameResolver) localName(ref string) string {
	if name, ok := r.names[ref]; ok {
		return name
	}

	name := ref
	if !strings.HasSuffix(ref, WeightFileSuffix) && !hasCheckpointMarker(ref) {
		name = uuid.NewString() + WeightFileSuffix
	}

	r.names[ref] = name
	return name
}
