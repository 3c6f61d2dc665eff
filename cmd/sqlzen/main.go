package main

import (
	"os"

	"github.com/slicenferqin/sql-zen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
