package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coregx/strling"
	"github.com/coregx/strling/emit"
	"github.com/coregx/strling/manifest"
)

var flagBuildJSON bool

var buildCmd = &cobra.Command{
	Use:   "build <file.yaml>",
	Short: "Compile every pattern in a manifest",
	Long: "Compile every pattern in a YAML manifest.\n\n" +
		"Entries compile independently; a failing entry is reported and\n" +
		"the rest still build. The exit status is nonzero if any failed.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := manifest.Load(args[0])
		if err != nil {
			return err
		}

		results := make([]buildResult, 0, len(f.Patterns))
		failed := 0
		for _, entry := range f.Patterns {
			out, err := buildEntry(entry)
			r := buildResult{Name: entry.Name, Dialect: entry.Dialect, Pattern: out}
			if err != nil {
				r.Error = err.Error()
				failed++
			}
			results = append(results, r)
		}

		if flagBuildJSON {
			if err := printJSON(cmd, results); err != nil {
				return err
			}
		} else {
			for _, r := range results {
				if r.Error != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Name, r.Error)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, r.Pattern)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d patterns failed", failed, len(f.Patterns))
		}
		return nil
	},
}

type buildResult struct {
	Name    string `json:"name"`
	Dialect string `json:"dialect"`
	Pattern string `json:"pattern,omitempty"`
	Error   string `json:"error,omitempty"`
}

func buildEntry(entry manifest.Pattern) (string, error) {
	p, err := strling.Compile(entry.DSL)
	if err != nil {
		return "", err
	}
	e, err := strling.NewEmitter(entry.Dialect, emit.Options{InlineFlags: entry.InlineFlags})
	if err != nil {
		return "", err
	}
	return p.Emit(e), nil
}

func init() {
	buildCmd.Flags().BoolVar(&flagBuildJSON, "json", false,
		"print results as JSON")
}
