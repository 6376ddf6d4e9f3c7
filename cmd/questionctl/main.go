// Command questionctl fetches a question from a running server and prints it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/neetprep/service_layer/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
