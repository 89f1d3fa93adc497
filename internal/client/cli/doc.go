// Package cli provides the interactive GophMarket command-line client.
//
// The client is the seller's device: while it runs and can reach the server
// it reports itself online, and the seller's own public ads stay in the feed
// it shows. Typical flow: log in, start the connectivity watcher,
// then manage ads and browse the feed from the REPL.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
