// cmd/trdpsim/main.go
package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/tamzrod/trdp-sim/cmd/trdpsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}
}
