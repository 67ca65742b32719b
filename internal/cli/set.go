package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/util"
	"github.com/mithrel/leancanvas/internal/wire"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set FIELD [VALUE|-]",
		Short: "Set one field",
		Long: "Set one field. FIELD is a key (problem), English name (unfair advantage),\n" +
			"heading label (課題) or a close fuzzy match. VALUE \"-\" reads stdin;\n" +
			"no VALUE empties the field.",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeFields,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			f, err := util.ResolveField(args[0])
			if err != nil {
				return err
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if value == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				value = strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r")
			}
			if err := app.Session.Set(cmd.Context(), f, value); err != nil {
				return err
			}
			return persist(cmd, app)
		},
	}
}

// persist writes changes a command made when autosave did not already.
func persist(cmd *cobra.Command, app *wire.App) error {
	if !app.Session.Dirty() {
		return nil
	}
	return app.Session.Save(cmd.Context())
}
