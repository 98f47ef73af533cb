// Package cli provides the interactive moodkeeper command-line client.
//
// It wires configuration, the local store, the remote document backend and
// the model-backed assistants into the application services, then runs a
// REPL. Every command works offline; when a session token is configured the
// synced collections converge with the remote store on each read and write.
//
// Commands:
//   - mood add|list|delete
//   - journal list|new|open|delete|write|entries
//   - memory show|set|clear|refresh|names
//   - profile show|set
//   - insights [day|week|month|year]
//   - sync
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
