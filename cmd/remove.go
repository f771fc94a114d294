package cmd

import (
	"fmt"
	"io"
	"strings"

	"ccswitch/config"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:               "remove [alias...]",
	Short:             "Remove one or more configurations",
	Long:              "Remove stored configurations by their alias names",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeAliases,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.NewStore()
		if err != nil {
			return fmt.Errorf("failed to load configurations: %w", err)
		}
		return runRemove(cmd.OutOrStdout(), cmd.ErrOrStderr(), store, args)
	},
}

// runRemove deletes each alias and saves once if anything was removed
func runRemove(out, errOut io.Writer, store *config.Store, aliases []string) error {
	removed := 0
	var notFound []string
	for _, alias := range aliases {
		if store.Remove(alias) {
			removed++
			fmt.Fprintf(out, "Configuration '%s' removed successfully\n", alias)
		} else {
			notFound = append(notFound, alias)
			fmt.Fprintf(out, "Configuration '%s' not found\n", alias)
		}
	}

	if removed > 0 {
		if err := store.Save(); err != nil {
			return err
		}
	}
	if len(notFound) > 0 {
		fmt.Fprintln(errOut, warningStyle.Render("Warning: The following configurations were not found: "+strings.Join(notFound, ", ")))
	}
	if removed > 0 {
		fmt.Fprintf(out, "Successfully removed %d configuration(s)\n", removed)
	}
	return nil
}
