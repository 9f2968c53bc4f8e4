// Package cli provides the interactive lexqa command-line client.
//
// It wires configuration, the local state database, the HTTP client and the
// session coordinator into a REPL. Typical flow: resolve the identity, show
// the document list, start a background connectivity watcher, then execute
// user commands until exit.
//
// Key features:
//   - Stage, unstage and upload PDF files
//   - List and refresh the document collection
//   - Two-step deletion (delete, then confirm or cancel)
//   - Ask questions and read answers with their supporting excerpts
//
// The package holds no state of its own beyond prompts; everything it shows
// is read from services.Session. The REPL is started via App.Run(ctx), which
// blocks until the user exits. See App, StartOnlineStatusWatcher and runREPL.
package cli
