// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stcall/internal/appcore"
	"stcall/internal/errors"
	"stcall/internal/output"
)

// RunContext executes the stcall command line and returns the exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := appcore.ExitOK
	root := newRootCmd(stdout, stderr, &code)
	if argv == nil {
		argv = []string{} // nil makes cobra read os.Args
	}
	root.SetArgs(argv)

	if err := root.ExecuteContext(parent); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(stderr, "hint: %s\n", h)
		}
		if code == appcore.ExitOK {
			code = appcore.ExitUsage
		}
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configFile string
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "stcall",
		Short: "Assign MLST sequence types from allele search hits",
		Long: `stcall - sequence-type calling from allele search hits.

Reads tabular search output (BLAST outfmt 7 or 6) of strain query
sequences against an allele database whose subject ids look like
species|locus_type, keeps the best hit per query when it is long and
identical enough, and looks each strain's allele combination up in an
ST catalog.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (STCALL_* prefix)
3. Config file (--config, ./stcall.toml or ~/.stcall/stcall.toml)
4. Default values

Examples:
  stcall run --catalog profiles.tsv hits/*.blast
  stcall run -c profiles.tsv.gz -o json --hit-table hits.tsv - < hits.blast
  stcall config init
  stcall history S12 --db ledger.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.WithHintf(err, "run '%s --help' for usage", c.CommandPath())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&g.configFile, "config", "", "config file (TOML)")
	pf.CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	pf.BoolP("quiet", "q", false, "log errors only")
	pf.Bool("log-json", false, "log as JSON lines")

	root.AddCommand(
		newRunCmd(g, stdout, stderr, code),
		newConfigCmd(g, stdout),
		newHistoryCmd(g, stdout, stderr, code),
		newVersionCmd(stdout),
	)
	return root
}

func newRunCmd(g *globals, stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] HITS...",
		Short: "Type strains from one or more hit files",
		Long: `Type strains from one or more hit files (globs allowed, - for stdin,
gzip detected automatically). The report goes to stdout.

The csv report starts a new header line whenever the typed loci change
from one strain to the next, so one report can hold several header
blocks. The json and yaml reports carry a diagnostics list, including
strains left untyped because their hits span several species.

Exit codes: 0 ok, 1 no strain typed (--no-match-exit), 2 usage or input
error, 3 output error, 130 interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = runTyping(cmd.Context(), g, cmd, args, stdout, stderr)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("catalog", "c", "", "ST catalog file (tab separated, .gz ok)")
	f.Int("min-length", 200, "minimum alignment length (exclusive)")
	f.Float64("min-identity", 95, "minimum percent identity (inclusive)")
	f.Bool("no-report", false, "skip the ST report")
	f.StringP("output", "o", output.FormatCSV, "report format: "+strings.Join(output.Formats(), "|"))
	f.IntP("threads", "t", 0, "strains resolved in parallel (0 = all CPUs)")
	f.String("locus-policy", "enumerate", "several allele types at one locus: enumerate|strict")
	f.Int("max-combinations", 256, "enumerate at most this many allele combinations per strain")
	f.Int("cache-size", 1024, "profile indexes kept in memory")
	f.String("hit-table", "", "write the accepted/rejected hit table to this file (JSON lines if it ends in .jsonl)")
	f.String("db", "", "record the run in this SQLite ledger")
	f.Int("no-match-exit", 1, "exit code when no strain gets an ST")
	f.StringSlice("non-allele", nil, "catalog header columns that end the allele columns")
	return cmd
}
