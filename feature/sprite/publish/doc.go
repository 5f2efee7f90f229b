// Package publish uploads converted sprites to the object storage bucket.
//
// The Adapter plugs the output directory and its index.json into the
// reconcile engine: indexed sprites missing in the bucket or with a
// different size are uploaded, and bucket objects no longer indexed are
// purged when requested.
package publish
