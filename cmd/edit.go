package cmd

import (
	"fmt"
	"io"

	"ccswitch/config"
	"ccswitch/internal/tui"

	"github.com/spf13/cobra"
)

// editFlags maps each non-interactive edit flag to its editor field
var editFlags = []struct {
	name  string
	field tui.Field
	usage string
}{
	{"alias", tui.FieldAlias, "Change the alias"},
	{"token", tui.FieldToken, "Change the API token"},
	{"url", tui.FieldURL, "Change the API endpoint URL"},
	{"model", tui.FieldModel, "Change the model (' ' clears)"},
	{"small-fast-model", tui.FieldSmallFastModel, "Change the small fast model (' ' clears)"},
	{"max-thinking-tokens", tui.FieldMaxThinkingTokens, "Change max thinking tokens (0 clears)"},
	{"api-timeout-ms", tui.FieldAPITimeoutMS, "Change the API timeout in ms (0 clears)"},
	{"disable-nonessential-traffic", tui.FieldDisableNonessentialTraffic, "Change the traffic flag (0 clears)"},
	{"default-sonnet-model", tui.FieldDefaultSonnetModel, "Change the default Sonnet model (' ' clears)"},
	{"default-opus-model", tui.FieldDefaultOpusModel, "Change the default Opus model (' ' clears)"},
	{"default-haiku-model", tui.FieldDefaultHaikuModel, "Change the default Haiku model (' ' clears)"},
}

func init() {
	rootCmd.AddCommand(editCmd)
	for _, f := range editFlags {
		editCmd.Flags().String(f.name, "", f.usage)
	}
}

var editCmd = &cobra.Command{
	Use:   "edit <alias>",
	Short: "Edit configuration",
	Long: `Edit a stored configuration

Without flags this opens the field editor. With flags the changes are applied
directly and saved.

Examples:
  # Field editor
  cc-switch edit work

  # Change the model and clear the API timeout
  cc-switch edit work --model claude-opus-4 --api-timeout-ms 0`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeAliases,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}

		changes := make(map[tui.Field]string)
		for _, f := range editFlags {
			if cmd.Flags().Changed(f.name) {
				value, _ := cmd.Flags().GetString(f.name)
				changes[f.field] = value
			}
		}
		if len(changes) == 0 {
			return a.engine().RunEditor(args[0])
		}
		return runEditFlags(a.out, a.store, args[0], changes)
	},
}

// runEditFlags applies changes through the field editor rules and saves.
// Fields are applied in editor order so a rename happens first.
func runEditFlags(out io.Writer, store *config.Store, alias string, changes map[tui.Field]string) error {
	p, ok := store.Get(alias)
	if !ok {
		return &config.NotFoundError{Alias: alias}
	}

	editor := tui.NewFieldEditor(*p)
	for _, f := range tui.Fields() {
		value, ok := changes[f]
		if !ok {
			continue
		}
		message, err := editor.Apply(f, value)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name(), err)
		}
		if message != "" {
			fmt.Fprintln(out, message)
		}
	}

	if editor.Collides(store) {
		return fmt.Errorf("configuration '%s' already exists", editor.Profile.AliasName)
	}
	if err := editor.Save(store); err != nil {
		return err
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Configuration '%s' updated", editor.Profile.AliasName)))
	return nil
}
