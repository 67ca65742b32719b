// Package watch re-runs a handler whenever one of a set of files is written.
package watch

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the cleaned absolute path of a changed file.
type Handler func(ctx context.Context, path string) error

type Options struct {
	// Debounce is the quiet period after the last event before Handler runs.
	Debounce time.Duration
	Log      *log.Logger
	// OnReady runs once every watch is registered.
	OnReady func(paths []string)
}

// Run watches paths until ctx is done. Parent directories are watched so
// editors that save by replacing the file are still seen. Handler errors are
// logged and do not stop the watch.
func Run(ctx context.Context, paths []string, handle Handler, opts Options) error {
	logger := opts.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		a = filepath.Clean(a)
		if targets[a] {
			continue
		}
		targets[a] = true
		abs = append(abs, a)
		dir := filepath.Dir(a)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	if opts.OnReady != nil {
		opts.OnReady(abs)
	}

	pending := make(map[string]*time.Timer)
	fire := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !targets[name] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if t := pending[name]; t != nil {
				t.Stop()
			}
			pending[name] = time.AfterFunc(opts.Debounce, func() {
				select {
				case fire <- name:
				case <-ctx.Done():
				}
			})
		case name := <-fire:
			delete(pending, name)
			if err := handle(ctx, name); err != nil {
				logger.Printf("watch: %s: %v", name, err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Printf("watch: %v", err)
		}
	}
}
