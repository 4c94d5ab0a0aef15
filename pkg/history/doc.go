// Package history records completed runs in a local SQLite database so
// past cleanups can be audited with `pagesweep history`.
//
// The schema is managed by goose migrations embedded in the binary and is
// brought up to date every time a Store is opened. Timestamps are stored
// as fixed-width UTC text so they sort lexically.
package history
