// Package importer bulk-loads Alpha Progression exports into the backend.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/draft"
	"github.com/meltforce/trainload/internal/ingest/alpha"
	"github.com/meltforce/trainload/internal/session"
)

// Ledger remembers which files have been imported.
type Ledger interface {
	IsImported(ctx context.Context, path, hash string) (bool, error)
	MarkImported(ctx context.Context, path, hash string, sessions int) error
}

var _ Ledger = (*draft.Store)(nil)

// Options controls an import run.
type Options struct {
	// ProfileID, when set, is assigned to every imported set.
	ProfileID *int
	// DryRun parses and converts without creating sessions.
	DryRun bool
	// Force re-imports files whose content was already imported.
	Force bool
}

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsCreated int
	SetsImported    int
	WarmupsSkipped  int

	// Unmatched lists export exercise names not found in the catalog.
	Unmatched []string
}

// Importer reads export files and submits one session per exported workout.
type Importer struct {
	cat     *catalog.Catalog
	creator session.Creator
	ledger  Ledger
	log     *slog.Logger
	opts    Options
	stats   Stats
}

// New creates a new Importer.
func New(cat *catalog.Catalog, creator session.Creator, ledger Ledger, log *slog.Logger, opts Options) *Importer {
	return &Importer{cat: cat, creator: creator, ledger: ledger, log: log, opts: opts}
}

// Import processes each path. A directory contributes its *.txt and *.csv files.
// Unreadable or malformed files are counted and skipped; a failed session
// create stops the run and leaves that file unmarked.
func (imp *Importer) Import(ctx context.Context, paths ...string) (*Stats, error) {
	files, err := expand(paths)
	if err != nil {
		return &imp.stats, err
	}

	unmatched := map[string]bool{}
	for _, f := range files {
		names, err := imp.importFile(ctx, f)
		if err != nil {
			return imp.finish(unmatched), err
		}
		for _, n := range names {
			unmatched[n] = true
		}
	}
	return imp.finish(unmatched), nil
}

func (imp *Importer) finish(unmatched map[string]bool) *Stats {
	imp.stats.Unmatched = imp.stats.Unmatched[:0]
	for n := range unmatched {
		imp.stats.Unmatched = append(imp.stats.Unmatched, n)
	}
	sort.Strings(imp.stats.Unmatched)
	return &imp.stats
}

func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		for _, pattern := range []string{"*.txt", "*.csv"} {
			matches, err := filepath.Glob(filepath.Join(p, pattern))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

// importFile imports a single export and returns its unmatched exercise names.
func (imp *Importer) importFile(ctx context.Context, path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	hash, err := draft.HashFile(abs)
	if err != nil {
		imp.log.Warn("hash failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil, nil
	}

	if !imp.opts.Force {
		done, err := imp.ledger.IsImported(ctx, abs, hash)
		if err != nil {
			return nil, fmt.Errorf("checking import ledger for %s: %w", path, err)
		}
		if done {
			imp.log.Info("skipping file (already imported)", "file", path)
			imp.stats.FilesSkipped++
			return nil, nil
		}
	}

	f, err := os.Open(abs)
	if err != nil {
		imp.log.Warn("open failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil, nil
	}
	sessions, err := alpha.Parse(f)
	f.Close()
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil, nil
	}

	res := alpha.Convert(imp.cat, sessions, imp.opts.ProfileID)
	imp.stats.FilesProcessed++
	imp.stats.WarmupsSkipped += res.WarmupsSkipped
	if len(res.Unmatched) > 0 {
		imp.log.Warn("exercises not in catalog", "file", path, "names", res.Unmatched)
	}

	if imp.opts.DryRun {
		imp.stats.SessionsCreated += len(res.Payloads)
		imp.stats.SetsImported += res.Sets
		return res.Unmatched, nil
	}

	for _, p := range res.Payloads {
		created, err := imp.creator.CreateSession(ctx, p)
		if err != nil {
			return res.Unmatched, fmt.Errorf("creating session %s from %s: %w", p.Date.Format("2006-01-02"), filepath.Base(path), err)
		}
		imp.stats.SessionsCreated++
		imp.stats.SetsImported += len(p.Sets)
		imp.log.Debug("session created", "id", created.ID, "date", p.Date, "sets", len(p.Sets))
	}

	if err := imp.ledger.MarkImported(ctx, abs, hash, len(res.Payloads)); err != nil {
		return res.Unmatched, fmt.Errorf("recording import of %s: %w", path, err)
	}
	return res.Unmatched, nil
}
