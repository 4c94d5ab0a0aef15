// Package gitremote lists branches by reading the refs advertised by a git
// remote. It serves repositories that are not hosted on GitHub, or when the
// REST API is unavailable. Nothing is cloned: only the ref advertisement is
// fetched, into memory.
package gitremote
