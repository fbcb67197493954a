// Package extract locates daily arrival extracts: a date-keyed local
// cache in front of the remote archive. Files are fetched at most once
// and cached indefinitely; the archive is treated as immutable.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ErrNoDataForDate means the remote archive has no object for the
// date: a day before collection started, or a future date. Callers
// skip the date and move on; this is never a reason to stop a run.
// A fetch failing for any other reason (auth, network) comes back as a
// distinct error, so the two cases stay tellable-apart in summaries.
var ErrNoDataForDate = errors.New("no data for date")

// Fetcher pulls one day's extract from the remote archive.
type Fetcher interface {
	Fetch(ctx context.Context, day time.Time) (io.ReadCloser, error)
}

// CacheOnly is a Fetcher for offline runs: anything not already in the
// local cache is treated as absent.
type CacheOnly struct{}

func (CacheOnly) Fetch(ctx context.Context, day time.Time) (io.ReadCloser, error) {
	return nil, ErrNoDataForDate
}

type Locator struct {
	CacheDir string
	Fetcher  Fetcher
}

// CachePath is where the extract for a day lives locally, whether or
// not it has been fetched yet.
func (l *Locator) CachePath(day time.Time) string {
	return filepath.Join(l.CacheDir, day.Format("2006-01-02")+".csv")
}

// Locate returns the local path of the extract for day, fetching it
// into the cache on first access. Returns ErrNoDataForDate when the
// archive has nothing for the day.
func (l *Locator) Locate(ctx context.Context, day time.Time) (string, error) {
	path := l.CachePath(day)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	rdr, err := l.Fetcher.Fetch(ctx, day)
	if err != nil {
		return "", err
	}
	defer rdr.Close()

	if err := os.MkdirAll(l.CacheDir, 0755); err != nil {
		return "", err
	}

	// Write via a temp file so an interrupted fetch can't leave a
	// half-written extract that later runs would trust.
	tmp, err := os.CreateTemp(l.CacheDir, ".fetch-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, rdr); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("fetch %s: %w", day.Format("2006-01-02"), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return path, nil
}
