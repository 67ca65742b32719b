package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/leancanvas/internal/util"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion",
		Short:       "Generate shell completion scripts",
		Annotations: map[string]string{noApp: ""},
	}
	gen := func(use, short string, run func(*cobra.Command) error) *cobra.Command {
		return &cobra.Command{
			Use:         use,
			Short:       short,
			Args:        cobra.NoArgs,
			Annotations: map[string]string{noApp: ""},
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd)
			},
		}
	}
	cmd.AddCommand(gen("bash", "Generate Bash completions", func(c *cobra.Command) error {
		return c.Root().GenBashCompletionV2(c.OutOrStdout(), true)
	}))
	cmd.AddCommand(gen("zsh", "Generate Zsh completions", func(c *cobra.Command) error {
		return c.Root().GenZshCompletion(c.OutOrStdout())
	}))
	cmd.AddCommand(gen("fish", "Generate Fish completions", func(c *cobra.Command) error {
		return c.Root().GenFishCompletion(c.OutOrStdout(), true)
	}))
	return cmd
}

// completeFields offers field keys for the first argument, best fuzzy
// matches first.
func completeFields(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	q := strings.ReplaceAll(toComplete, " ", "")
	return util.ScoreCompletions(q, util.FieldNames(), 20), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
}
