// Package storage wraps the MinIO client for S3 compatible buckets.
//
// Client is the narrow interface the sprite flows depend on; mocks.Client
// implements it for tests. NewClient accepts endpoints with or without a
// scheme (see ParseEndpoint).
//
// On top of the interface:
//
//   - EnsureBucket creates the publish bucket on first use
//   - ReadObject fetches a whole object, such as the game master
//   - ListSizes maps object names under a prefix to their sizes
//   - RemoveAll deletes a batch of objects through RemoveObjects
//
//	client, err := storage.NewClient(cfg.Storage)
//	sizes, err := storage.ListSizes(ctx, client, "sprites", "", ".png")
package storage
