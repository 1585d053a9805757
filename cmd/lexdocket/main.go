// The lexdocket binary is the offline command line tool for deadline
// calculations, cascade previews and holiday listings.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/LexDocket/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
