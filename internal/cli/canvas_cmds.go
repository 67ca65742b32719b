package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/editor"
	"github.com/mithrel/leancanvas/internal/export"
	"github.com/mithrel/leancanvas/internal/printer"
)

func newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the current canvas to storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.Session.Save(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s\n", app.Cfg.StorageDSN)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty every field and remove the stored canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := confirmClear(cmd.InOrStdin(), yes); err != nil {
				return err
			}
			if err := app.Session.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirmClear(in io.Reader, yes bool) error {
	if yes {
		return nil
	}
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear the canvas?").
				Description("Every field is emptied and the stored canvas is removed.").
				Value(&confirm),
		),
	)
	if err := form.WithInput(f).Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}

func newPrintCmd() *cobra.Command {
	var toStdout bool
	var dir string
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Open a printable page of the canvas",
		Long: "Write a landscape HTML page of the canvas and open it with print.command\n" +
			"(default: the system opener) so it can be printed from the viewer.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if toStdout {
				return export.Write(cmd.OutOrStdout(), export.FormatHTML, app.Session.Record(), app.ExportOptions())
			}
			path, err := printer.Print(cmd.Context(), app.Session.Record(), app.Cfg.PrintCommand, dir)
			if err != nil {
				if path != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Print page kept at %s\n", path)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the HTML page to stdout instead of opening it")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the page (default: a temp dir)")
	return cmd
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the canvas as Markdown in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			changed, err := editor.Edit(cmd.Context(), app.Session)
			if err != nil {
				return err
			}
			if !changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return nil
			}
			if err := persist(cmd, app); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Updated")
			return nil
		},
	}
}
