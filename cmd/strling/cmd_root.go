package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName + " [command]",
	Short: "Pattern DSL to regex translator",
	Long: "Pattern DSL to regex translator.\n\n" +
		"Compiles the pattern DSL into regex text for a target dialect\n" +
		"(pcre2 or re2) without executing any matching itself.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// patternArg returns the pattern from args, or reads it from stdin so
// the command composes with pipes: echo '\d+' | strling compile.
func patternArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
