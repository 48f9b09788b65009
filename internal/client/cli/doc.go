// Package cli provides the interactive Campus Connect command-line client.
//
// It wires configuration, the local session store, the HTTP API client, and
// an interactive REPL for sharing study resources and messaging.
//
// Key features:
//   - Register / Login / Logout with session restore on start
//   - Browse, upload, edit, delete and download study resources
//   - Study groups: list, create, open a group conversation
//   - Direct messages between users
//   - Send messages with an optional staged file attachment
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
