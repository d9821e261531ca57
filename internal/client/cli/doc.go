// Package cli implements the interactive passvault client: a small REPL
// that drives the session manager and the credential store. It renders
// results and errors; all state lives in the store.
package cli
