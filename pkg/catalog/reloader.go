package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Reloader re-reads the catalog document on a fixed interval and publishes
// the parsed snapshot. A failed reload is reported and the previous snapshot
// stays in place; the process never crashes on a bad catalog edit.
type Reloader struct {
	store    *Store
	path     string
	interval time.Duration
	logger   *zap.Logger
}

// NewReloader creates a reloader for the catalog file at path.
func NewReloader(store *Store, path string, interval time.Duration, logger *zap.Logger) *Reloader {
	return &Reloader{
		store:    store,
		path:     path,
		interval: interval,
		logger:   logger.Named("catalog-reloader"),
	}
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(doc)
}

// Run reloads on the configured interval until ctx is cancelled. The initial
// snapshot is expected to be loaded by the caller before Run starts.
func (r *Reloader) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reload()
		}
	}
}

func (r *Reloader) reload() {
	c, err := LoadFile(r.path)
	if err != nil {
		r.logger.Warn("Catalog reload failed, keeping previous snapshot",
			zap.String("path", r.path),
			zap.Error(err))
		return
	}
	r.store.Replace(c)
	r.logger.Info("Catalog reloaded",
		zap.String("path", r.path),
		zap.Int("queries", c.Len()))
}
