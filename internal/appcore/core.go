// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"stcall/internal/blast"
	"stcall/internal/config"
	"stcall/internal/errors"
	"stcall/internal/inputs"
	"stcall/internal/matcher"
	"stcall/internal/runutil"
	"stcall/internal/store"
	"stcall/internal/strainidx"
	"stcall/internal/version"
	"stcall/internal/writers"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2 // bad arguments, unreadable or malformed input
	ExitIO        = 3 // output or ledger failure
	ExitCancelled = 130
)

type Options struct {
	HitFiles []string
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Writer   WriterFactory // nil picks one from Config
}

// Summary counts one run's outcome.
type Summary struct {
	RunID       string
	Queries     int
	Accepted    int
	Strains     int
	Assigned    int
	Ambiguous   int
	NotAssigned int
	Conflicts   int
}

func (s Summary) counts() store.Counts {
	return store.Counts{
		Queries: s.Queries, Accepted: s.Accepted, Strains: s.Strains,
		Assigned: s.Assigned, Ambiguous: s.Ambiguous, NotAssigned: s.NotAssigned,
		Conflicts: s.Conflicts,
	}
}

// Run types every strain in o.HitFiles and writes the report to stdout.
// Errors go to stderr; the return value is the process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	cfg, log := o.Config, o.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	fail := func(code int, err error) int {
		fmt.Fprintf(stderr, "error: %v\n", err)
		for _, h := range errors.GetAllHints(err) {
			fmt.Fprintf(stderr, "hint: %s\n", h)
		}
		return code
	}

	if cfg.Catalog == "" {
		return fail(ExitUsage, errors.WithHint(errors.New("no ST catalog given"), "pass --catalog FILE or set catalog in stcall.toml"))
	}
	if len(o.HitFiles) == 0 {
		return fail(ExitUsage, errors.WithHint(errors.New("no hit files given"), "use - to read from stdin"))
	}
	if cfg.Catalog == inputs.Stdin && slices.Contains(o.HitFiles, inputs.Stdin) {
		return fail(ExitUsage, errors.WithHint(errors.New("catalog and hits cannot both come from stdin"), "read one of them from a file"))
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	run := store.NewRun()
	log = log.With("run_id", run.ID)

	cat, err := loadCatalog(cfg.Catalog, cfg.CatalogOptions(), log)
	if err != nil {
		return fail(ExitUsage, err)
	}
	results, err := parseHitFiles(ctx, o.HitFiles, cfg.Thresholds(), log)
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	} else if err != nil {
		return fail(ExitUsage, err)
	}

	sum := Summary{RunID: run.ID, Queries: len(results)}
	sum.Accepted, _, _ = blast.Counts(results)

	if cfg.HitTable != "" {
		if err := writeHitTable(cfg.HitTable, results); err != nil {
			return fail(ExitIO, err)
		}
		log.Debugw("Hit table written", "path", cfg.HitTable, "rows", len(results))
	}

	b := strainidx.NewBuilder()
	b.AddResults(results)
	ix := b.Build()

	conflicts := matcher.ConflictDiagnostics(ix.Conflicts())
	for _, d := range conflicts {
		log.Warnw(d.Message, "strain", d.Strain, "kind", string(d.Kind))
	}
	strains := ix.Resolved()
	sum.Strains, sum.Conflicts = len(strains), len(conflicts)

	thr := runutil.EffectiveThreads(cfg.Threads)
	m := matcher.New(cat, cfg.MatcherOptions())
	typed, err := m.ResolveAll(ctx, strains, thr)
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	} else if err != nil {
		return fail(ExitUsage, err)
	}
	hits, builds := m.CacheStats()
	log.Debugw("Profile indexes", "built", builds, "reused", hits)

	for _, r := range typed {
		switch r.Status {
		case matcher.StatusAssigned:
			sum.Assigned++
		case matcher.StatusAmbiguous:
			sum.Ambiguous++
		default:
			sum.NotAssigned++
		}
		for _, d := range r.Diagnostics {
			if d.Kind.Warning() {
				log.Warnw(d.Message, "strain", d.Strain, "species", r.Species, "kind", string(d.Kind))
			} else {
				log.Debugw(d.Message, "strain", d.Strain, "species", r.Species, "kind", string(d.Kind))
			}
		}
	}

	if code := writeReport(ctx, stdout, stderr, o, cfg, thr, typed, conflicts); code != ExitOK {
		return code
	}

	if cfg.DB != "" {
		run.Version = version.Version
		run.HitFiles = o.HitFiles
		run.Catalog = cfg.Catalog
		run.MinLength, run.MinIdentity, run.LocusPolicy = cfg.MinLength, cfg.MinIdentity, cfg.LocusPolicy
		if err := recordRun(ctx, cfg.DB, run, typed, conflicts, sum, log); err != nil {
			return fail(ExitIO, err)
		}
	}

	log.Infow("Typing complete",
		"queries", sum.Queries, "accepted", sum.Accepted, "strains", sum.Strains,
		"assigned", sum.Assigned, "ambiguous", sum.Ambiguous,
		"not_assigned", sum.NotAssigned, "conflicts", sum.Conflicts,
	)
	if ctx.Err() != nil {
		return ExitCancelled
	}
	if sum.Assigned+sum.Ambiguous == 0 {
		return cfg.NoMatchExitCode
	}
	return ExitOK
}

func writeReport(ctx context.Context, stdout, stderr io.Writer, o Options, cfg *config.Config, thr int, typed []matcher.Result, conflicts []matcher.Diagnostic) int {
	wf := o.Writer
	if wf == nil {
		wf = NewWriterFactory(cfg.Output, cfg.ReportEnabled)
	}
	outw := bufio.NewWriter(stdout)
	inCh, writeErr := wf.Start(outw, runutil.BufferSize(thr), conflicts)

	var serr error
	for _, r := range typed {
		select {
		case inCh <- r:
		case <-ctx.Done():
			serr = ctx.Err()
		}
		if serr != nil {
			break
		}
	}
	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return ExitIO
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return ExitIO
	}
	if serr != nil {
		return ExitCancelled
	}
	return ExitOK
}

func recordRun(ctx context.Context, path string, run store.Run, typed []matcher.Result, conflicts []matcher.Diagnostic, sum Summary, log *zap.SugaredLogger) error {
	db, err := store.OpenWithMigrations(path, log)
	if err != nil {
		return err
	}
	defer db.Close()

	l := store.NewLedger(db, log)
	if err := l.BeginRun(ctx, run); err != nil {
		return err
	}
	if err := l.RecordResults(ctx, run.ID, typed, conflicts); err != nil {
		return err
	}
	if err := l.FinishRun(ctx, run.ID, sum.counts()); err != nil {
		return err
	}
	log.Infow("Run recorded in ledger", "path", path)
	return nil
}
