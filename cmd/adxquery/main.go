package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adxquery",
		Short: "Query ADExplorer snapshot files offline",
	}
	rootCmd.AddCommand(queryCommand(), headerCommand(), compareCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}
