package main

import (
	"os"

	"github.com/PolarWolf314/gmprime/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
