package main

import (
	"github.com/spf13/cobra"

	"github.com/coregx/strling/ir"
	"github.com/coregx/strling/literal"
	"github.com/coregx/strling/syntax"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [pattern]",
	Short: "Dump a pattern's AST, IR, and feature tags as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := patternArg(args)
		if err != nil {
			return err
		}

		flags, ast, err := syntax.NewParser(source).Parse()
		if err != nil {
			return err
		}
		op, meta, err := ir.NewCompiler().CompileWithMetadata(ast)
		if err != nil {
			return err
		}

		prefixes := []string{}
		if !flags.IgnoreCase {
			seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(op)
			for i := 0; i < seq.Len(); i++ {
				prefixes = append(prefixes, string(seq.Get(i).Bytes))
			}
		}

		return printJSON(cmd, inspectResult{
			Source:    source,
			Flags:     flags,
			AST:       ast,
			IR:        op,
			Features:  meta.Features(),
			Anomalies: meta.Anomalies(),
			Prefixes:  prefixes,
		})
	},
}

type inspectResult struct {
	Source    string       `json:"source"`
	Flags     syntax.Flags `json:"flags"`
	AST       syntax.Node  `json:"ast"`
	IR        ir.Op        `json:"ir"`
	Features  []string     `json:"features"`
	Anomalies []string     `json:"anomalies"`
	Prefixes  []string     `json:"prefixes"`
}
