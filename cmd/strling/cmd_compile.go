package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/coregx/strling"
	"github.com/coregx/strling/emit"
	"github.com/coregx/strling/syntax"
)

var (
	flagDialect     string
	flagInlineFlags bool
	flagJSON        bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [pattern]",
	Short: "Compile one pattern to regex text",
	Long: "Compile one pattern to regex text.\n\n" +
		"The pattern is taken from the first argument, or from stdin when\n" +
		"no argument is given.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := patternArg(args)
		if err != nil {
			return err
		}

		p, err := strling.Compile(source)
		if err != nil {
			return err
		}
		e, err := strling.NewEmitter(flagDialect, emit.Options{InlineFlags: flagInlineFlags})
		if err != nil {
			return err
		}
		out := p.Emit(e)

		if !flagJSON {
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		return printJSON(cmd, compileResult{
			Source:   source,
			Dialect:  flagDialect,
			Pattern:  out,
			Flags:    p.Flags(),
			Features: p.Features(),
		})
	},
}

type compileResult struct {
	Source   string       `json:"source"`
	Dialect  string       `json:"dialect"`
	Pattern  string       `json:"pattern"`
	Flags    syntax.Flags `json:"flags"`
	Features []string     `json:"features"`
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func init() {
	compileCmd.Flags().StringVarP(&flagDialect, "dialect", "d", "pcre2",
		"target dialect (pcre2, re2)")
	compileCmd.Flags().BoolVar(&flagInlineFlags, "inline-flags", false,
		"prefix the output with an inline (?...) flag construct")
	compileCmd.Flags().BoolVar(&flagJSON, "json", false,
		"print result as JSON")
}
