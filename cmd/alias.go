package cmd

import (
	"fmt"

	"ccswitch/internal/shell"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(aliasCmd)
}

var aliasCmd = &cobra.Command{
	Use:   "alias <shell>",
	Short: "Print shell aliases for eval",
	Long: `Print the cs and ccd aliases for the given shell:
  cs='cc-switch'
  ccd='claude --dangerously-skip-permissions'

To use them in the current session:
  eval "$(cc-switch alias bash)"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: shell.Shells(),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := shell.NewGenerator(args[0]).Generate()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}
