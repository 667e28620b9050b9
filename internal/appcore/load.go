package appcore

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"stcall/internal/blast"
	"stcall/internal/catalog"
	"stcall/internal/errors"
	"stcall/internal/inputs"
	"stcall/internal/output"
)

func loadCatalog(path string, opt catalog.Options, log *zap.SugaredLogger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(path, opt)
	if err != nil {
		return nil, err
	}
	log.Infow("Catalog loaded", "path", path, "profiles", cat.Len(), "species", len(cat.Species()))
	return cat, nil
}

// parseHitFiles parses every file in order into one result list. A query
// id seen in an earlier file keeps that file's result.
func parseHitFiles(ctx context.Context, paths []string, th blast.Thresholds, log *zap.SugaredLogger) ([]blast.QueryResult, error) {
	var all []blast.QueryResult
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rc, err := inputs.Open(p)
		if err != nil {
			return nil, err
		}
		res, err := blast.ParseNamed(rc, inputs.Name(p), th)
		rc.Close()
		if err != nil {
			return nil, err
		}
		acc, rej, none := blast.Counts(res)
		log.Debugw("Hit file parsed", "path", p, "queries", len(res), "accepted", acc, "rejected", rej, "no_hit", none)
		all = append(all, res...)
	}
	all, dropped := blast.FirstPerQuery(all)
	if len(dropped) > 0 {
		log.Warnw("Queries repeated across hit files; first file wins", "queries", len(dropped), "first", dropped[0])
	}
	return all, nil
}

// writeHitTable writes the tab-separated hit table, or JSON lines when path
// ends in .jsonl.
func writeHitTable(path string, results []blast.QueryResult) error {
	write := output.WriteHitTable
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		write = output.WriteHitJSONL
	}
	fh, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create hit table")
	}
	if err := write(fh, results); err != nil {
		fh.Close()
		return errors.Wrapf(err, "write hit table %s", path)
	}
	return errors.Wrapf(fh.Close(), "close hit table %s", path)
}
