package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stcall/internal/errors"
	"stcall/internal/matcher"
)

// Run is one invocation of the typing pipeline.
type Run struct {
	ID          string
	StartedAt   time.Time
	Version     string
	HitFiles    []string
	Catalog     string
	MinLength   int
	MinIdentity float64
	LocusPolicy string
}

// NewRun stamps a run with a fresh id and the current time.
func NewRun() Run {
	return Run{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// Counts summarise a finished run.
type Counts struct {
	Queries     int
	Accepted    int
	Strains     int
	Assigned    int
	Ambiguous   int
	NotAssigned int
	Conflicts   int
}

// CallRecord is a stored report row.
type CallRecord struct {
	RunID   string
	Strain  string
	Species string
	ST      string
	Status  string
	Loci    []string
	Alleles []string
}

// Ledger writes runs, calls and diagnostics.
type Ledger struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

func NewLedger(db *sql.DB, logger *zap.SugaredLogger) *Ledger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Ledger{db: db, logger: logger}
}

func (l *Ledger) BeginRun(ctx context.Context, r Run) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, version, hit_files, catalog, min_length, min_identity, locus_policy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt, r.Version, strings.Join(r.HitFiles, "\n"), r.Catalog,
		r.MinLength, r.MinIdentity, r.LocusPolicy,
	)
	if err != nil {
		return errors.Wrapf(err, "record run %s", r.ID)
	}
	l.logger.Debugw("Run recorded", "run_id", r.ID)
	return nil
}

// RecordResults stores every report row and diagnostic of results, plus
// the extra diagnostics (multi-species conflicts), in one transaction.
func (l *Ledger) RecordResults(ctx context.Context, runID string, results []matcher.Result, extra []matcher.Diagnostic) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin ledger tx")
	}
	defer tx.Rollback()

	nCalls, nDiags := 0, 0
	for _, r := range results {
		loci := strings.Join(r.Loci, ",")
		for _, row := range r.Rows {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO st_calls (run_id, strain, species, st, status, loci, alleles) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				runID, r.Strain, r.Species, row.ST, string(r.Status), loci, strings.Join(row.Alleles, ","),
			); err != nil {
				return errors.Wrapf(err, "record call for strain %s", r.Strain)
			}
			nCalls++
		}
		for _, d := range r.Diagnostics {
			if err := insertDiagnostic(ctx, tx, runID, d); err != nil {
				return err
			}
			nDiags++
		}
	}
	for _, d := range extra {
		if err := insertDiagnostic(ctx, tx, runID, d); err != nil {
			return err
		}
		nDiags++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit ledger tx")
	}
	l.logger.Debugw("Calls recorded", "run_id", runID, "calls", nCalls, "diagnostics", nDiags)
	return nil
}

func insertDiagnostic(ctx context.Context, tx *sql.Tx, runID string, d matcher.Diagnostic) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO diagnostics (run_id, kind, strain, message) VALUES (?, ?, ?, ?)`,
		runID, string(d.Kind), d.Strain, d.Message,
	)
	return errors.Wrapf(err, "record %s diagnostic for strain %s", d.Kind, d.Strain)
}

func (l *Ledger) FinishRun(ctx context.Context, runID string, c Counts) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, queries = ?, accepted = ?, strains = ?, assigned = ?,
		 ambiguous = ?, not_assigned = ?, conflicts = ? WHERE id = ?`,
		time.Now().UTC(), c.Queries, c.Accepted, c.Strains, c.Assigned,
		c.Ambiguous, c.NotAssigned, c.Conflicts, runID,
	)
	return errors.Wrapf(err, "finish run %s", runID)
}

// CallsForStrain returns the stored rows of strain across runs, oldest
// run first.
func (l *Ledger) CallsForStrain(ctx context.Context, strain string) ([]CallRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT c.run_id, c.strain, c.species, c.st, c.status, c.loci, c.alleles
		 FROM st_calls c JOIN runs r ON r.id = c.run_id
		 WHERE c.strain = ? ORDER BY r.started_at, c.id`, strain)
	if err != nil {
		return nil, errors.Wrapf(err, "query calls for %s", strain)
	}
	defer rows.Close()

	var out []CallRecord
	for rows.Next() {
		var (
			c             CallRecord
			loci, alleles string
		)
		if err := rows.Scan(&c.RunID, &c.Strain, &c.Species, &c.ST, &c.Status, &loci, &alleles); err != nil {
			return nil, errors.Wrap(err, "scan call")
		}
		c.Loci = splitList(loci)
		c.Alleles = splitList(alleles)
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate calls")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
