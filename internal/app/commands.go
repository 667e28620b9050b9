package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stcall/internal/appcore"
	"stcall/internal/cliutil"
	"stcall/internal/config"
	"stcall/internal/errors"
	"stcall/internal/logger"
	"stcall/internal/store"
	"stcall/internal/version"
)

// loadConfig layers file, env and the flags of cmd.
func loadConfig(g *globals, cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New(g.configFile)
	if err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func runTyping(ctx context.Context, g *globals, cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig(g, cmd)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(stderr, "hint: %s\n", h)
		}
		return appcore.ExitUsage
	}
	hitFiles, err := cliutil.ExpandPositionals(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return appcore.ExitUsage
	}
	log := logger.New(stderr, logger.Options{JSON: cfg.LogJSON, Verbosity: cfg.Verbose, Quiet: cfg.Quiet})
	defer func() { _ = log.Sync() }()

	return appcore.Run(ctx, stdout, stderr, appcore.Options{
		HitFiles: hitFiles,
		Config:   cfg,
		Logger:   log,
	})
}

func newConfigCmd(g *globals, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect stcall.toml",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the default configuration as TOML (default ./stcall.toml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.FileName + ".toml"
			if len(args) == 1 {
				path = args[0]
			}
			flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
			if force {
				flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			}
			fh, err := os.OpenFile(path, flags, 0o644)
			if errors.Is(err, os.ErrExist) {
				return errors.WithHint(errors.Newf("%s already exists", path), "use --force to overwrite")
			} else if err != nil {
				return errors.Wrap(err, "create config")
			}
			if err := config.WriteTOML(fh, config.Defaults()); err != nil {
				fh.Close()
				return err
			}
			if err := fh.Close(); err != nil {
				return errors.Wrap(err, "close config")
			}
			fmt.Fprintf(stdout, "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g, cmd)
			if err != nil {
				return err
			}
			return config.WriteYAML(stdout, cfg)
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func newHistoryCmd(g *globals, stdout, stderr io.Writer, code *int) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "history STRAIN",
		Short: "List the STs recorded for a strain across ledger runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := loadConfig(g, cmd)
				if err != nil {
					return err
				}
				dbPath = cfg.DB
			}
			if dbPath == "" {
				return errors.WithHint(errors.New("no ledger given"), "pass --db PATH or set db in stcall.toml")
			}
			if _, err := os.Stat(dbPath); err != nil {
				return errors.Wrap(err, "open ledger")
			}
			db, err := store.OpenWithMigrations(dbPath, nil)
			if err != nil {
				*code = appcore.ExitIO
				return err
			}
			defer db.Close()

			calls, err := store.NewLedger(db, nil).CallsForStrain(cmd.Context(), args[0])
			if err != nil {
				*code = appcore.ExitIO
				return err
			}
			if len(calls) == 0 {
				fmt.Fprintf(stderr, "no calls recorded for %s\n", args[0])
				*code = 1
				return nil
			}
			for _, c := range calls {
				pairs := make([]string, len(c.Loci))
				for i, l := range c.Loci {
					pairs[i] = l + "=" + c.Alleles[i]
				}
				fmt.Fprintf(stdout, "%s\t%s\t%s\t%s\t%s\n", c.RunID, c.Species, c.ST, c.Status, strings.Join(pairs, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite ledger written by run --db")
	return cmd
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show stcall version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "stcall version %s\n", version.Version)
		},
	}
}
