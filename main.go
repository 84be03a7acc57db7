package main

import (
	"os"

	"github.com/leakscout/leakscout/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
