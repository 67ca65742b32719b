package wire

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/mithrel/leancanvas/internal/config"
	"github.com/mithrel/leancanvas/internal/db"
	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/internal/session"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg     config.Config
	Log     *log.Logger
	Store   db.Store
	Session *session.Session
}

// NewLogger returns the app logger: stderr when verbose, discarded otherwise.
func NewLogger(verbose bool) *log.Logger {
	var out io.Writer = io.Discard
	if verbose {
		out = os.Stderr
	}
	return log.New(out, "leancanvas ", log.LstdFlags)
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, cfg config.Config) (*App, error) {
	logger := NewLogger(cfg.Verbose)
	store, err := db.Open(ctx, cfg.StorageDSN)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(ctx, store, logger, session.Options{AutoSave: cfg.AutoSave})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Printf("store %s opened", cfg.StorageDSN)
	return &App{
		Cfg:     cfg,
		Log:     logger,
		Store:   store,
		Session: sess,
	}, nil
}

// ExportOptions maps the export settings onto the exporters.
func (a *App) ExportOptions() export.Options {
	return export.Options{
		PNG:   export.PNGOptions{Scale: a.Cfg.PNGScale, FontPath: a.Cfg.FontPath, Log: a.Log},
		Slide: export.SlideOptions{AccentColor: a.Cfg.SlideThemeColor},
	}
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
