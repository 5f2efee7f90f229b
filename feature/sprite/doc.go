// Package sprite wires the sprite pipeline together and exposes it over HTTP.
//
// The Service owns the symbol dictionary, the rule set and the current
// frozen table. It runs the pipeline stages for the CLI commands (build,
// legacy audit, PMSF migration, publish) and answers the HTTP feature:
//
//	GET /sprites/resolve/:filename   match one asset and render its outputs
//	GET /sprites/table               the suffix table in precedence order
//	GET /sprites/table/:key          one table entry
//	GET /sprites/index               the latest stored index run
//
// Resolve results are kept in an LRU cache that is purged whenever the
// table changes.
package sprite
