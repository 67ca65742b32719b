package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/present"
	"github.com/mithrel/leancanvas/internal/present/format"
	"github.com/mithrel/leancanvas/internal/util"
)

func newShowCmd() *cobra.Command {
	var outputMode string
	var indent bool
	var width int
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(outputMode)
			if !ok {
				return fmt.Errorf("unknown output mode %q (want %s)", outputMode, strings.Join(present.Modes(), "|"))
			}
			if width <= 0 {
				width = app.Cfg.RenderWidth
			}
			opts := present.Options{
				Mode:       mode,
				JSONIndent: indent,
				Style:      app.Cfg.RenderStyle,
				Width:      width,
			}
			return renderRecord(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), app.Session.Record(), opts)
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: "+strings.Join(present.Modes(), "|"))
	cmd.Flags().BoolVar(&indent, "indent", true, "indent json output")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "wrap width for pretty and grid output (default render.width)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return present.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "get FIELD",
		Short:             "Print one field",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFields,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			f, err := util.ResolveField(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.Session.Record().Get(f))
			return err
		},
	}
}

func newFieldsCmd() *cobra.Command {
	var headers bool
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the canvas fields with their labels and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return format.WriteFields(cmd.OutOrStdout(), app.Session.Record(), headers)
		},
	}
	cmd.Flags().BoolVar(&headers, "headers", true, "print a header row")
	return cmd
}
