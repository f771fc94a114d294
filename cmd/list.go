package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ccswitch/config"
	"ccswitch/config/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listPlain  bool
	listOutput string
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listPlain, "plain", "p", false, "Output in plain text format")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "json", "Output format (json or yaml)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored configurations",
	Long:  "List all stored configurations with their aliases, tokens and URLs. JSON is the default format.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.NewStore()
		if err != nil {
			return fmt.Errorf("failed to load configurations: %w", err)
		}
		format := listOutput
		if listPlain {
			format = "plain"
		}
		return runList(cmd.OutOrStdout(), store, format)
	},
}

// yamlProfile mirrors the store's JSON field names for YAML output
type yamlProfile struct {
	AliasName                  string  `yaml:"alias_name"`
	Token                      string  `yaml:"token"`
	URL                        string  `yaml:"url"`
	Model                      *string `yaml:"model,omitempty"`
	SmallFastModel             *string `yaml:"small_fast_model,omitempty"`
	MaxThinkingTokens          *uint32 `yaml:"max_thinking_tokens,omitempty"`
	APITimeoutMS               *uint32 `yaml:"api_timeout_ms,omitempty"`
	DisableNonessentialTraffic *uint32 `yaml:"claude_code_disable_nonessential_traffic,omitempty"`
	DefaultSonnetModel         *string `yaml:"anthropic_default_sonnet_model,omitempty"`
	DefaultOpusModel           *string `yaml:"anthropic_default_opus_model,omitempty"`
	DefaultHaikuModel          *string `yaml:"anthropic_default_haiku_model,omitempty"`
}

func runList(out io.Writer, store *config.Store, format string) error {
	profiles := store.Profiles()

	switch format {
	case "plain":
		printPlain(out, store, profiles)
		return nil

	case "json":
		byAlias := make(map[string]models.Profile, len(profiles))
		for _, p := range profiles {
			byAlias[p.AliasName] = p
		}
		data, err := json.MarshalIndent(byAlias, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize configurations: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil

	case "yaml":
		byAlias := make(map[string]yamlProfile, len(profiles))
		for _, p := range profiles {
			byAlias[p.AliasName] = yamlProfile(p)
		}
		data, err := yaml.Marshal(byAlias)
		if err != nil {
			return fmt.Errorf("failed to serialize configurations: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}
	return fmt.Errorf("unsupported output format: %s (use json or yaml)", format)
}

func printPlain(out io.Writer, store *config.Store, profiles []models.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No configurations stored")
	} else {
		fmt.Fprintln(out, "Stored configurations:")
		for _, p := range profiles {
			fmt.Fprintf(out, "  %s: %s\n", p.AliasName, plainInfo(p))
		}
	}

	if dir := store.SettingsDir(); dir != "" {
		fmt.Fprintf(out, "Claude settings directory: %s\n", dir)
	} else {
		fmt.Fprintln(out, "Claude settings directory: ~/.claude/ (default)")
	}
	fmt.Fprintf(out, "Default storage mode: %s\n", store.DefaultMode())
}

func plainInfo(p models.Profile) string {
	parts := []string{"token=" + p.Token, "url=" + p.URL}
	addStr := func(name string, v *string) {
		if v != nil {
			parts = append(parts, name+"="+*v)
		}
	}
	addUint := func(name string, v *uint32) {
		if v != nil {
			parts = append(parts, name+"="+strconv.FormatUint(uint64(*v), 10))
		}
	}
	addStr("model", p.Model)
	addStr("small_fast_model", p.SmallFastModel)
	addUint("max_thinking_tokens", p.MaxThinkingTokens)
	addUint("api_timeout_ms", p.APITimeoutMS)
	addUint("disable_nonessential_traffic", p.DisableNonessentialTraffic)
	addStr("default_sonnet_model", p.DefaultSonnetModel)
	addStr("default_opus_model", p.DefaultOpusModel)
	addStr("default_haiku_model", p.DefaultHaikuModel)
	return strings.Join(parts, ", ")
}
