// Package loader registers features on the Fiber app.
//
// A feature reports its name, whether it is enabled, and mounts its routes
// in Load. The Manager keeps registration order and LoadAll skips disabled
// features, so the sprite feature simply stays off when no service could
// be built.
package loader
