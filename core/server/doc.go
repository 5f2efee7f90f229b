// Package server holds the HTTP server configuration.
//
// The start command owns the fiber app itself; this package defines the
// settings it reads (listen port, API key, body limit and read timeout)
// and validates them before the server binds.
package server
