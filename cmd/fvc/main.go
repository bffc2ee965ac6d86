package main

import (
	"os"

	"github.com/keshon/fvc/internal/command"
)

func main() {
	os.Exit(command.Run())
}
