package main

import (
	"os"

	"github.com/PolarWolf314/vaultapi/cmd"
	"github.com/awnumar/memguard"
)

func main() {
	// Wipe protected memory on Ctrl-C.
	memguard.CatchInterrupt()

	code := cmd.Execute()
	memguard.Purge()
	os.Exit(code)
}
