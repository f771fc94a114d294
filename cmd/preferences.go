package cmd

import (
	"fmt"
	"io"

	"ccswitch/config"
	"ccswitch/config/models"

	"github.com/spf13/cobra"
)

var clearSettingsDir bool

func init() {
	rootCmd.AddCommand(settingsDirCmd)
	rootCmd.AddCommand(modeCmd)
	settingsDirCmd.Flags().BoolVar(&clearSettingsDir, "clear", false, "Go back to the default ~/.claude directory")
}

var settingsDirCmd = &cobra.Command{
	Use:   "settings-dir [dir]",
	Short: "Show or set the Claude settings directory",
	Long: `Show or set the directory holding Claude's settings.json

An absolute path is used as is; a relative path is taken from the home
directory. --clear restores the default ~/.claude.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.NewStore()
		if err != nil {
			return fmt.Errorf("failed to load configurations: %w", err)
		}
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		return runSettingsDir(cmd.OutOrStdout(), store, dir, clearSettingsDir)
	},
}

func runSettingsDir(out io.Writer, store *config.Store, dir string, reset bool) error {
	switch {
	case reset:
		store.SetSettingsDir("")
	case dir != "":
		store.SetSettingsDir(dir)
	default:
		if current := store.SettingsDir(); current != "" {
			fmt.Fprintf(out, "Claude settings directory: %s\n", current)
		} else {
			fmt.Fprintln(out, "Claude settings directory: ~/.claude/ (default)")
		}
		return nil
	}

	if err := store.Save(); err != nil {
		return err
	}
	if reset {
		fmt.Fprintln(out, "Claude settings directory reset to ~/.claude/ (default)")
	} else {
		fmt.Fprintf(out, "Claude settings directory set to: %s\n", dir)
	}
	return nil
}

var modeCmd = &cobra.Command{
	Use:       "mode [env|config]",
	Short:     "Show or set the default storage mode",
	Long:      "Show or set the storage mode used when --store and CC_SWITCH_STORE are not given",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(models.WriteModeEnv), string(models.WriteModeConfig)},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.NewStore()
		if err != nil {
			return fmt.Errorf("failed to load configurations: %w", err)
		}
		value := ""
		if len(args) == 1 {
			value = args[0]
		}
		return runMode(cmd.OutOrStdout(), store, value)
	},
}

func runMode(out io.Writer, store *config.Store, value string) error {
	if value == "" {
		fmt.Fprintf(out, "Default storage mode: %s\n", store.DefaultMode())
		return nil
	}
	mode, err := models.ParseWriteMode(value)
	if err != nil {
		return err
	}
	store.SetDefaultMode(mode)
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Default storage mode set to: %s\n", mode)
	return nil
}
