package main

import (
	"os"

	"github.com/dshills/checkgate/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
