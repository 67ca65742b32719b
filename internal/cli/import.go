package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/watch"
	"github.com/mithrel/leancanvas/internal/wire"
)

func newImportCmd() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "import FILE|GLOB|- ...",
		Short: "Merge Markdown canvases into the current one",
		Long: "Merge Markdown files into the canvas in argument order. Recognized sections\n" +
			"replace their field; everything else is kept. GLOB supports ** patterns.\n" +
			"\"-\" reads stdin. With --watch, files are re-imported whenever they are written.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			paths, err := expandImportArgs(args)
			if err != nil {
				return err
			}
			for _, p := range paths {
				if err := importOne(cmd, app, p); err != nil {
					return err
				}
			}
			if !follow {
				return nil
			}
			var files []string
			for _, p := range paths {
				if p != "-" {
					files = append(files, p)
				}
			}
			if len(files) == 0 {
				return fmt.Errorf("--watch needs at least one file")
			}
			return watchImports(cmd, app, files)
		},
	}
	cmd.Flags().BoolVar(&follow, "watch", false, "keep running and re-import files when they change")
	return cmd
}

// expandImportArgs resolves globs; plain paths pass through so a missing
// file is reported by the import itself.
func expandImportArgs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if a == "-" || !strings.ContainsAny(a, "*?[{") {
			out = append(out, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", a, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", a)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func importOne(cmd *cobra.Command, app *wire.App, path string) error {
	ctx := cmd.Context()
	var err error
	if path == "-" {
		err = app.Session.Import(ctx, cmd.InOrStdin())
	} else {
		err = app.Session.ImportFile(ctx, path)
	}
	if err != nil {
		return err
	}
	if err := persist(cmd, app); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", path)
	return nil
}

func watchImports(cmd *cobra.Command, app *wire.App, files []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch.Run(ctx, files, func(_ context.Context, path string) error {
		if err := importOne(cmd, app, path); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Import %s failed: %v\n", path, err)
			return err
		}
		return nil
	}, watch.Options{
		Debounce: app.Cfg.WatchDebounce,
		Log:      app.Log,
		OnReady: func(paths []string) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (ctrl+c to stop)\n", strings.Join(paths, ", "))
		},
	})
}
