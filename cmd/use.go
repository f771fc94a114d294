package cmd

import (
	"fmt"
	"io"

	"ccswitch/config"
	"ccswitch/config/environ"
	"ccswitch/config/models"
	"ccswitch/config/validation"
	"ccswitch/internal/launcher"
	"ccswitch/internal/tui"

	"github.com/spf13/cobra"
)

// officialAlias selects the official configuration on the command line
const officialAlias = validation.ReservedAlias

func init() {
	rootCmd.AddCommand(useCmd)
}

var useCmd = &cobra.Command{
	Use:     "use [alias]",
	Aliases: []string{"switch"},
	Short:   "Switch to a configuration and launch Claude",
	Long: `Switch to the configuration with the given alias and launch Claude.

Use 'cc' to go back to the official configuration:
  cc-switch use cc

The storage mode decides where the credentials go:
  env     exported to the launched process; settings.json env entries are removed
  config  written to the env section of settings.json

Select the mode with --store, CC_SWITCH_STORE or 'cc-switch mode'.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAliases,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		return runUse(a.out, a.store, a.merger(), launcher.New(a.out), a.runtime.Mode, args[0])
	},
}

// runUse switches to alias, or resets for cc, and launches the assistant. A
// config-mode conflict is returned so the process exits non-zero.
func runUse(out io.Writer, store *config.Store, merger tui.Switcher, l launcher.Launcher, mode models.WriteMode, alias string) error {
	if alias == officialAlias {
		outcome, err := merger.Reset()
		if err != nil {
			return err
		}
		fmt.Fprint(out, tui.RenderOutcome(outcome))
		fmt.Fprintln(out, "Using official Claude configuration")
		fmt.Fprintln(out, "Current URL: Default (no custom URL configured)")
		return l.Launch(environ.Official())
	}

	p, ok := store.Get(alias)
	if !ok {
		return &config.NotFoundError{Alias: alias}
	}

	outcome, err := merger.Switch(*p, mode)
	if err != nil {
		return err
	}
	fmt.Fprint(out, tui.RenderOutcome(outcome))
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Switched to configuration '%s'", alias)))
	fmt.Fprintf(out, "Current URL: %s\n", p.URL)

	bag := environ.Official()
	if mode != models.WriteModeConfig {
		bag = environ.Materialize(*p)
	}
	return l.Launch(bag)
}
