// Package middleware groups the Fiber middleware of the sprite-index
// server. The subpackages are registered in cmd/start.go in this order:
//
//   - rayid: tags each request with an id, kept from X-Ray-ID when the
//     caller sends one, so logger.WithRayID can correlate log lines
//   - auth: rejects requests without the configured API key; the swagger
//     UI is mounted before it and stays public
package middleware
