// mockinizer CLI - standalone mock server for integration tests.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mockinizer/mockinizer/pkg/mock"
)

func main() {
	root := &cobra.Command{
		Use:           "mockinizer",
		Short:         "Programmable mock HTTP server for integration tests",
		Version:       mock.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
