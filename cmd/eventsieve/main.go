// EventSieve - Log Scanner
//
// EventSieve matches log lines against regex rules and reports suspicious
// activity, once or continuously while the log grows.
package main

import (
	"os"

	"github.com/eventsieve/eventsieve/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
