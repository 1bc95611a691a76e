package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/qpdiff/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		if errors.Is(err, cli.ErrDivergent) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
}
