package main

import (
	"os"

	"github.com/sohei-t/modflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// cobra already printed the error through its error template.
		os.Exit(1)
	}
}
