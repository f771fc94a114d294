package cmd

import (
	"fmt"
	"io"
	"strings"

	"ccswitch/config"
	"ccswitch/config/models"
	"ccswitch/config/settings"
	"ccswitch/internal/launcher"
	"ccswitch/internal/logging"
	"ccswitch/internal/tui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

const (
	envPrefix = "CC_SWITCH"

	keyStore       = "store"
	keySettingsDir = "settings-dir"
	keyDebug       = "debug"
)

var (
	listAliases bool
	migrate     bool

	v = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "cc-switch",
	Short: "A CLI tool for managing Claude API configurations",
	Long: `cc-switch helps you manage multiple Claude API configurations and switch between them easily.

EXAMPLES:
    cc-switch add my-config sk-ant-xxx https://api.anthropic.com
    cc-switch add my-config -t sk-ant-xxx -u https://api.anthropic.com -m claude-sonnet-4
    cc-switch add my-config -i         # Interactive mode
    cc-switch add my-config --force    # Overwrite existing config
    cc-switch add -j ./work.json       # Import from an exported settings file
    cc-switch list
    cc-switch remove config1 config2
    cc-switch use my-config            # Switch and launch Claude
    cc-switch use cc                   # Back to the official configuration
    cc-switch current                  # Main menu
    cc-switch                          # Configuration selector

SHELL COMPLETION AND ALIASES:
    cc-switch completion fish          # Shell completions
    eval "$(cc-switch alias bash)"     # cs='cc-switch', ccd='claude --dangerously-skip-permissions'`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetDefault(logging.New(cmd.ErrOrStderr(), v.GetBool(keyDebug)))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrate {
			return runMigrate(cmd.OutOrStdout())
		}

		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		if listAliases {
			return runListAliases(cmd.OutOrStdout(), a.store)
		}
		return a.engine().RunSelect()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(keyStore, "", "Storage mode for writing configuration (env: process environment, config: settings.json env section)")
	flags.String(keySettingsDir, "", "Claude settings directory (default ~/.claude)")
	flags.Bool(keyDebug, false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&listAliases, "list-aliases", false, "List available configuration aliases (for shell completion)")
	_ = rootCmd.Flags().MarkHidden("list-aliases")
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "Migrate the legacy store (~/.cc_auto_switch/configurations.json) to the new path and exit")

	configureViper(v, rootCmd)
}

// configureViper registers defaults, the CC_SWITCH_ environment and the
// persistent flags of cmd, giving flag > env > store > default.
func configureViper(v *viper.Viper, cmd *cobra.Command) {
	v.SetDefault(keyStore, string(models.WriteModeEnv))
	v.SetDefault(keySettingsDir, "")
	v.SetDefault(keyDebug, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{keyStore, keySettingsDir, keyDebug} {
		if f := cmd.PersistentFlags().Lookup(key); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// runtimeConfig is the resolved set of run-time preferences
type runtimeConfig struct {
	Mode        models.WriteMode
	SettingsDir string
	Debug       bool
}

// resolveRuntime layers the store-level preferences under the flags and
// environment already known to v
func resolveRuntime(v *viper.Viper, store *config.Store) (runtimeConfig, error) {
	layer := map[string]any{}
	if dir := store.SettingsDir(); dir != "" {
		layer[keySettingsDir] = dir
	}
	layer[keyStore] = string(store.DefaultMode())
	if err := v.MergeConfigMap(layer); err != nil {
		return runtimeConfig{}, fmt.Errorf("failed to apply stored preferences: %w", err)
	}

	mode, err := models.ParseWriteMode(v.GetString(keyStore))
	if err != nil {
		return runtimeConfig{}, err
	}
	return runtimeConfig{
		Mode:        mode,
		SettingsDir: v.GetString(keySettingsDir),
		Debug:       v.GetBool(keyDebug),
	}, nil
}

// app is what a command needs once the store is open
type app struct {
	store   *config.Store
	runtime runtimeConfig
	out     io.Writer
	errOut  io.Writer
}

func loadApp(cmd *cobra.Command) (*app, error) {
	store, err := config.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load configurations: %w", err)
	}
	rt, err := resolveRuntime(v, store)
	if err != nil {
		return nil, err
	}
	logging.Default().Debug("resolved preferences", "mode", rt.Mode, "settings_dir", rt.SettingsDir, "store", store.Path())
	return &app{
		store:   store,
		runtime: rt,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}, nil
}

func (a *app) merger() *settings.Merger {
	return &settings.Merger{Dir: a.runtime.SettingsDir, Backup: true}
}

func (a *app) engine() *tui.Engine {
	return tui.NewEngine(a.store, a.merger(), launcher.New(a.out), a.runtime.Mode)
}

// runMigrate moves the legacy store into place
func runMigrate(out io.Writer) error {
	path, err := config.DefaultStorePath()
	if err != nil {
		return err
	}
	migrated, err := config.MigrateLegacy(path)
	if err != nil {
		return fmt.Errorf("failed to migrate configurations: %w", err)
	}
	if migrated {
		fmt.Fprintf(out, "Migrated configurations to %s\n", path)
	} else {
		fmt.Fprintln(out, "Nothing to migrate")
	}
	return nil
}

// runListAliases prints completion candidates: cc first, then current if
// present, then the rest in sorted order
func runListAliases(out io.Writer, store *config.Store) error {
	fmt.Fprintln(out, officialAlias)
	aliases := store.Aliases()
	for _, alias := range aliases {
		if alias == "current" {
			fmt.Fprintln(out, alias)
		}
	}
	for _, alias := range aliases {
		if alias != "current" {
			fmt.Fprintln(out, alias)
		}
	}
	return nil
}

// completeAliases offers stored aliases to shell completion
func completeAliases(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	store, err := config.NewStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return store.Aliases(), cobra.ShellCompDirectiveNoFileComp
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(`cc-switch {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)
	return rootCmd.Execute()
}
