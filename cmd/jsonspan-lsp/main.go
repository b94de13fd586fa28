// Command jsonspan-lsp runs a minimal Language Server Protocol server over
// stdio that publishes jsonparse diagnostics for JSON documents as they are
// opened and edited.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lattice-substrate/spanjson/lsp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	srv := lsp.NewServer(logger)
	if err := srv.RunStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "jsonspan-lsp: %v\n", err)
		os.Exit(1)
	}
}
