package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/leancanvas/internal/config"
	"github.com/mithrel/leancanvas/internal/present/tui"
	"github.com/mithrel/leancanvas/internal/wire"
)

type ctxKey string

const (
	appKey   ctxKey = "app"
	viperKey ctxKey = "viper"
)

// noApp marks commands that only need the loaded config, not the store.
const noApp = "leancanvas/no-app"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "leancanvas",
		Short:         "Lean Canvas editor for the terminal",
		Long:          "Edit a one-page Lean Canvas in a full-screen form, or script it with subcommands.\nRun without arguments to open the editor.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"dsn":     "storage.dsn",
				"verbose": "log.verbose",
			})
			if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
				v.Set("storage.dsn", "mem://")
			}
			ctx := context.WithValue(cmd.Context(), viperKey, v)
			cmd.SetContext(ctx)
			if _, skip := cmd.Annotations[noApp]; skip {
				return nil
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return fmt.Errorf("invalid config:\n%w", err)
			}
			app, err := wire.BuildApp(ctx, config.FromViper(v))
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(ctx, appKey, app))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			return tui.Run(cmd.Context(), app.Session, tui.Options{
				Export:       app.ExportOptions(),
				ExportDir:    app.Cfg.ExportDir,
				PrintCommand: app.Cfg.PrintCommand,
				Style:        app.Cfg.RenderStyle,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().String("dsn", "", "storage DSN (sqlite://PATH, file://PATH or mem://)")
	cmd.PersistentFlags().Bool("ephemeral", false, "keep the canvas in memory only (same as --dsn mem://)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log to stderr")

	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newFieldsCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSaveCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newPrintCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	closeAppAfterRun(cmd)
	return cmd
}

// closeAppAfterRun wraps every RunE in the tree so the store is closed
// whether or not the command succeeds. Cobra skips post-run hooks on error.
func closeAppAfterRun(c *cobra.Command) {
	for _, sub := range c.Commands() {
		closeAppAfterRun(sub)
	}
	run := c.RunE
	if run == nil {
		return
	}
	c.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				err = errors.Join(err, app.Close())
			}
		}()
		return run(cmd, args)
	}
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getViper(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(viperKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
