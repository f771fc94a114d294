package cmd

import (
	"fmt"
	"io"
	"strings"

	"ccswitch/internal/shell"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

var completionCmd = &cobra.Command{
	Use:       "completion [shell]",
	Aliases:   []string{"C"},
	Short:     "Generate shell completion scripts",
	Long:      "Generate the completion script for fish (default), zsh, bash or powershell",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"fish", "zsh", "bash", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "fish"
		if len(args) == 1 {
			name = args[0]
		}
		return runCompletion(cmd.OutOrStdout(), cmd.Root(), name)
	},
}

func runCompletion(out io.Writer, root *cobra.Command, name string) error {
	var err error
	switch name {
	case "fish":
		err = root.GenFishCompletion(out, true)
	case "zsh":
		err = root.GenZshCompletion(out)
	case "bash":
		err = root.GenBashCompletionV2(out, true)
	case "powershell":
		err = root.GenPowerShellCompletionWithDesc(out)
	default:
		return &shell.UnsupportedShellError{Shell: name}
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s completion: %w", name, err)
	}

	if name == "powershell" {
		return nil
	}
	aliases, err := shell.NewGenerator(name).Generate()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\n# Useful aliases for cc-switch. Add them to your shell startup file or run:")
	fmt.Fprintf(out, "# eval \"$(cc-switch alias %s)\"\n", name)
	for _, line := range strings.Split(strings.TrimRight(aliases, "\n"), "\n") {
		fmt.Fprintf(out, "# %s\n", line)
	}
	return nil
}
