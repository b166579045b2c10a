package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "mot-compare",
	Short: "Compare identities of two multi-object tracking runs",
	Long: "mot-compare matches objects of two measurement tables of the same sequence\n" +
		"frame by frame using motion likelihoods, infers how labels of the first table\n" +
		"map onto labels of the second one and reports how often they disagree.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
