package main

import (
	"fmt"
	"os"

	"github.com/nadavyigal/Running-coach--sub004/cmd/runcoach/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
