package main

import (
	"fmt"
	"os"

	"github.com/roach88/memento/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	code := cli.GetExitCode(err)
	if code != cli.ExitSuccess {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
