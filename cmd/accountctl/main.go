// Command accountctl manages saved accounts from the command line, using the
// same storage backend and environment configuration as the accountdesk server.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
