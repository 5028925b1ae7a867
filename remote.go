package loranodes

import (
	"context"
	"errors"
)

// BucketLoraLoader applies a LoRA fetched on demand from an
// S3-compatible bucket or a URL. It backs the S3Bucket_Load_LoRA node
// class: the reference is an object key or a Google Drive style link,
// staged into a local directory before loading.
//
// Resolved filenames are memoized per instance, so the same reference
// stages under the same name across executions. Decoded weights follow
// the same single-slot retention as LoraLoader. Instances are not safe
// for concurrent use.
type BucketLoraLoader struct {
	// stagingDir is where fetched files land.
	stagingDir string

	// bucket is the base bucket config; per-request overrides merge on top.
	bucket BucketConfig

	// index resolves already-known references without fetching.
	index AssetIndex

	// loader decodes weight files.
	loader WeightLoader

	// patcher applies decoded weights to the model pair.
	patcher Patcher

	// resolver maps references to deterministic staging filenames.
	resolver *nameResolver

	// fetcher stages remote files locally.
	fetcher *fetcher

	// cache holds the most recently decoded weight set.
	cache *loadCache[string, Weights]

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// Ensure BucketLoraLoader implements Node.
var _ Node = (*BucketLoraLoader)(nil)

// NewBucketLoraLoader creates the bucket LoRA node.
// Returns an error if index, loader, or patcher is nil. cfg supplies the
// staging directory and default bucket credentials; both have working
// defaults (see Config).
func NewBucketLoraLoader(cfg Config, index AssetIndex, loader WeightLoader, patcher Patcher, opts ...NodeOption) (*BucketLoraLoader, error) {
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

	downloader := ncfg.downloader
	if downloader == nil {
		downloader = newBucketDownloader(ncfg.logger)
	}

	cache, err := newLoadCache[string, Weights](ncfg.cacheCapacity)
	if err != nil {
		return nil, err
	}

	stagingDir := resolveStagingDir(cfg)
	urls := newURLFetcher(ncfg.httpClient, ncfg.logger)

	return &BucketLoraLoader{
		stagingDir: stagingDir,
		bucket:     cfg.Bucket,
		index:      index,
		loader:     loader,
		patcher:    patcher,
		resolver:   newNameResolver(),
		fetcher:    newFetcher(stagingDir, index, urls, downloader, ncfg.logger),
		cache:      cache,
		logger:     ncfg.logger,
	}, nil
}

// Apply stages the referenced LoRA locally if needed and patches model
// and clip at the given strengths.
//
// Passing NoneSelection or an empty ref returns the inputs unchanged
// without resolving, fetching, or loading anything. Strengths outside
// [MinStrength, MaxStrength] yield ErrInvalidRef. overrides, when
// non-nil, replaces the node's bucket config field-by-field for this
// call only (empty fields keep their configured values); the process
// environment is never touched.
//
// References already present in the host index are applied without a
// fetch. Everything else is resolved to a deterministic staging name and
// downloaded, resetting the staging directory first.
func (n *BucketLoraLoader) Apply(ctx context.Context, model Model, clip CLIP, ref string, strengthModel, strengthClip float64, overrides *BucketConfig) (Model, CLIP, error) {
	if ref == "" || ref == NoneSelection {
		return model, clip, nil
	}

	if err := validateStrength("strength_model", strengthModel); err != nil {
		return Model{}, CLIP{}, err
	}
	if err := validateStrength("strength_clip", strengthClip); err != nil {
		return Model{}, CLIP{}, err
	}

	path, ok := n.index.FullPath(LoraCategory, ref)
	if !ok {
		bucket := n.bucket
		if overrides != nil {
			bucket = bucket.override(*overrides)
		}

		var err error
		path, err = n.fetcher.ensureLocal(ctx, ref, n.resolver.localName(ref), bucket)
		if err != nil {
			return Model{}, CLIP{}, err
		}
	}

	weights, err := loadWeights(n.cache, n.loader, path)
	if err != nil {
		return Model{}, CLIP{}, err
	}

	if n.logger != nil {
		n.logger.Debug("applying lora", "ref", ref, "path", path,
			"strength_model", strengthModel, "strength_clip", strengthClip)
	}

	return n.patcher.Apply(model, clip, weights, strengthModel, strengthClip)
}

// StagingDir returns the directory remote fetches are staged into.
func (n *BucketLoraLoader) StagingDir() string {
	return n.stagingDir
}

// Info returns the node's class metadata.
func (n *BucketLoraLoader) Info() NodeInfo {
	return NodeInfo{
		ClassName:   ClassS3BucketLora,
		DisplayName: NodeDisplayNames[ClassS3BucketLora],
		Function:    NodeFunction,
		ReturnTypes: []string{"MODEL", "CLIP"},
	}
}

// InputTypes returns the node's input schema. Bucket credential fields
// are optional; filled-in values override the node's environment-derived
// defaults per call.
func (n *BucketLoraLoader) InputTypes() InputSpec {
	return InputSpec{
		Required: []Field{
			typeField("model", "MODEL"),
			typeField("clip", "CLIP"),
			stringField("remote_lora_path_or_url", map[string]any{"multiline": false}),
			floatField("strength_model", 1.0, MinStrength, MaxStrength, 0.01),
			floatField("strength_clip", 1.0, MinStrength, MaxStrength, 0.01),
		},
		Optional: []Field{
			stringField("BUCKET_ENDPOINT_URL", map[string]any{"default": ""}),
			stringField("BUCKET_ACCESS_KEY_ID", map[string]any{"default": ""}),
			stringField("BUCKET_SECRET_ACCESS_KEY", map[string]any{"default": ""}),
			stringField("BUCKET_NAME", map[string]any{"default": ""}),
		},
	}
}
