// Command lsp is the elimc language server. It speaks JSON-RPC over
// stdin/stdout and reports missing and redundant clauses as the user types.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)          // Disable timestamp in logs
	log.SetOutput(os.Stderr) // Log to stderr, not stdout (stdout is for LSP protocol)

	server := NewLanguageServer(os.Stdout)
	server.Start(os.Stdin)
	os.Exit(server.ExitCode())
}
