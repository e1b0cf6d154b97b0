// Command strling translates pattern DSL text into regex pattern text.
//
// Usage:
//
//	strling compile '\d+' --dialect re2
//	strling build patterns.yaml --json
//	strling inspect '(?<area>\d{3})-\d{4}'
package main

import (
	"fmt"
	"os"
)

const appName = "strling"

func main() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
