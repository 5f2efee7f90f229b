package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sprite-index/core/reconcile"
	"sprite-index/core/storage"
	"sprite-index/feature/sprite/convert"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Options locates the converted sprites locally and in the bucket.
type Options struct {
	OutputDir string
	Prefix    string
	Extension string
}

// Adapter reconciles the converted output directory against the bucket.
// It implements reconcile.Adapter, reconcile.Mutator and
// reconcile.StorageBatchDeleter.
type Adapter struct {
	client storage.Client
	bucket string
	opts   Options
	logger *zap.Logger
}

// NewAdapter creates a publish adapter.
func NewAdapter(client storage.Client, bucket string, opts Options, logger *zap.Logger) *Adapter {
	if opts.Extension == "" {
		opts.Extension = ".png"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{client: client, bucket: bucket, opts: opts, logger: logger}
}

// Spec bundles the adapter into a reconcile spec.
func (a *Adapter) Spec(cacheTTL time.Duration, workers int) *reconcile.Spec {
	return &reconcile.Spec{
		Adapter:          a,
		CacheTTL:         cacheTTL,
		StoragePrefix:    a.opts.Prefix,
		StorageExtension: a.opts.Extension,
		Workers:          workers,
	}
}

func (a *Adapter) Name() string { return "sprites" }

// LoadIndex reads the output listing written by the conversion step.
func (a *Adapter) LoadIndex(_ context.Context) (map[string]reconcile.Item, error) {
	names, err := convert.ReadIndex(a.opts.OutputDir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]reconcile.Item, len(names))
	for _, n := range names {
		out[n] = reconcile.Item{Key: n, Size: -1}
	}
	return out, nil
}

// LoadLocal lists the converted files in the output directory.
func (a *Adapter) LoadLocal(_ context.Context) (map[string]reconcile.Item, error) {
	entries, err := os.ReadDir(a.opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}
	out := make(map[string]reconcile.Item, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), a.opts.Extension) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		key := strings.TrimSuffix(e.Name(), a.opts.Extension)
		out[key] = reconcile.Item{Key: key, Size: info.Size()}
	}
	return out, nil
}

// LoadStorage lists the published sprites in one paginated pass.
func (a *Adapter) LoadStorage(ctx context.Context, client storage.Client, bucket, prefix, extension string) (map[string]reconcile.Item, error) {
	sizes, err := storage.ListSizes(ctx, client, bucket, prefix, extension)
	if err != nil {
		return nil, err
	}
	out := make(map[string]reconcile.Item, len(sizes))
	for k, s := range sizes {
		out[k] = reconcile.Item{Key: k, Size: s}
	}
	return out, nil
}

// Upload puts the local sprite for key into the bucket.
func (a *Adapter) Upload(ctx context.Context, key string) error {
	return a.put(ctx, key+a.opts.Extension)
}

// DeleteStorage removes one published sprite.
func (a *Adapter) DeleteStorage(ctx context.Context, key string) error {
	return a.client.RemoveObject(ctx, a.bucket, a.objectName(key+a.opts.Extension), minio.RemoveObjectOptions{})
}

// DeleteStorageBatch removes many published sprites in one request.
func (a *Adapter) DeleteStorageBatch(ctx context.Context, keys []string) error {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, a.objectName(k+a.opts.Extension))
	}
	return storage.RemoveAll(ctx, a.client, a.bucket, names)
}

// PublishIndex uploads the output listing next to the sprites.
func (a *Adapter) PublishIndex(ctx context.Context) error {
	return a.put(ctx, convert.IndexFile)
}

func (a *Adapter) put(ctx context.Context, file string) error {
	f, err := os.Open(filepath.Join(a.opts.OutputDir, file))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(file))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := a.objectName(file)
	if _, err := a.client.PutObject(ctx, a.bucket, name, f, info.Size(), minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	a.logger.Debug("Uploaded sprite", zap.String("object", name), zap.Int64("size", info.Size()))
	return nil
}

func (a *Adapter) objectName(file string) string {
	return a.opts.Prefix + file
}
