package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/export"
)

func newExportCmd() *cobra.Command {
	var formatName string
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the canvas to a Markdown, PNG, PPTX, HTML or JSON file",
		Long: "Write the canvas to a file. Without --output the file lands in export.dir\n" +
			"under its default name. --output may name a file, a directory or \"-\" for stdout.\n" +
			"Without --format the format follows the --output extension, else md.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			f, err := resolveExportFormat(formatName, out)
			if err != nil {
				return err
			}
			rec := app.Session.Record()
			if out == "-" {
				return export.Write(cmd.OutOrStdout(), f, rec, app.ExportOptions())
			}
			path := exportPath(out, app.Cfg.ExportDir, export.Filename(f, rec, time.Now()))
			if err := export.ToFile(path, f, rec, app.ExportOptions()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", f, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "md|png|pptx|html|json")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, directory or - for stdout")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range export.Formats() {
			names = append(names, string(f))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func resolveExportFormat(name, out string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if ext := filepath.Ext(out); ext != "" && out != "-" {
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return export.FormatMarkdown, nil
}

// exportPath picks the destination: out itself, a default name inside out
// when it is a directory, or a default name inside dir.
func exportPath(out, dir, name string) string {
	if out == "" {
		if dir == "" {
			dir = "."
		}
		return filepath.Join(dir, name)
	}
	if strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, name)
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}
