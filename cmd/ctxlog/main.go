// Command ctxlog writes one structured JSON log record from the command line,
// for shell scripts that want the same record shape as Go services.
//
//	ctxlog --context request_id=r1 warning "slow request" latency_ms=200
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
