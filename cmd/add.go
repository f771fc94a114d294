package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ccswitch/config"
	"ccswitch/config/models"
	"ccswitch/config/validation"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultURL = "https://api.anthropic.com"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

// addOptions carries the add flags. Zero numeric values mean unset.
type addOptions struct {
	alias    string
	token    string
	url      string
	tokenArg string
	urlArg   string

	model              string
	smallFastModel     string
	maxThinkingTokens  uint32
	apiTimeoutMS       uint32
	disableTraffic     uint32
	defaultSonnetModel string
	defaultOpusModel   string
	defaultHaikuModel  string

	force       bool
	interactive bool
	fromFile    string
}

var addOpts addOptions

var addCmd = &cobra.Command{
	Use:   "add [alias] [token] [url]",
	Short: "Add a new Claude API configuration",
	Long: `Add a new Claude API configuration

Usage 1: flags or positional arguments
  cc-switch add my-config sk-ant-xxx https://api.example.com
  cc-switch add my-config -t sk-ant-xxx -u https://api.example.com -m claude-sonnet-4

Usage 2: interactive
  cc-switch add my-config -i

Usage 3: import the env section of an exported settings file (JSON or YAML);
the file name without extension becomes the alias
  cc-switch add -j ./work.json`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(3)(cmd, args); err != nil {
			return err
		}
		if len(args) == 0 && addOpts.fromFile == "" {
			return errors.New("alias is required when not using --from-file")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := addOpts
		if len(args) > 0 {
			opts.alias = args[0]
		}
		if len(args) > 1 {
			opts.tokenArg = args[1]
		}
		if len(args) > 2 {
			opts.urlArg = args[2]
		}

		store, err := config.NewStore()
		if err != nil {
			return fmt.Errorf("failed to load configurations: %w", err)
		}
		return runAdd(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), store, opts)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	flags := addCmd.Flags()
	flags.StringVarP(&addOpts.token, "token", "t", "", "API token (ANTHROPIC_AUTH_TOKEN)")
	flags.StringVarP(&addOpts.url, "url", "u", "", "API endpoint URL (default "+defaultURL+")")
	flags.StringVarP(&addOpts.model, "model", "m", "", "Custom model name")
	flags.StringVar(&addOpts.smallFastModel, "small-fast-model", "", "Haiku-class model for background tasks")
	flags.Uint32Var(&addOpts.maxThinkingTokens, "max-thinking-tokens", 0, "Maximum thinking tokens limit")
	flags.Uint32Var(&addOpts.apiTimeoutMS, "api-timeout-ms", 0, "API timeout in milliseconds")
	flags.Uint32Var(&addOpts.disableTraffic, "disable-nonessential-traffic", 0, "Disable non-essential traffic flag")
	flags.StringVar(&addOpts.defaultSonnetModel, "default-sonnet-model", "", "Default Sonnet model name")
	flags.StringVar(&addOpts.defaultOpusModel, "default-opus-model", "", "Default Opus model name")
	flags.StringVar(&addOpts.defaultHaikuModel, "default-haiku-model", "", "Default Haiku model name")
	flags.BoolVarP(&addOpts.force, "force", "f", false, "Overwrite existing configuration with same alias")
	flags.BoolVarP(&addOpts.interactive, "interactive", "i", false, "Enter configuration values interactively")
	flags.StringVarP(&addOpts.fromFile, "from-file", "j", "", "Import configuration from a JSON or YAML file (file name becomes alias)")
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return models.StringPtr(s)
}

func optionalUint(n uint32) *uint32 {
	if n == 0 {
		return nil
	}
	return models.Uint32Ptr(n)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// profileFromOptions builds the profile from flags and positional arguments
func profileFromOptions(opts addOptions) (models.Profile, error) {
	token := firstNonEmpty(opts.token, opts.tokenArg)
	if token == "" {
		return models.Profile{}, errors.New("token is required. Use -t flag, provide as argument, or use interactive mode with -i")
	}
	return models.Profile{
		AliasName:                  opts.alias,
		Token:                      token,
		URL:                        firstNonEmpty(opts.url, opts.urlArg, defaultURL),
		Model:                      optional(opts.model),
		SmallFastModel:             optional(opts.smallFastModel),
		MaxThinkingTokens:          optionalUint(opts.maxThinkingTokens),
		APITimeoutMS:               optionalUint(opts.apiTimeoutMS),
		DisableNonessentialTraffic: optionalUint(opts.disableTraffic),
		DefaultSonnetModel:         optional(opts.defaultSonnetModel),
		DefaultOpusModel:           optional(opts.defaultOpusModel),
		DefaultHaikuModel:          optional(opts.defaultHaikuModel),
	}, nil
}

func runAdd(in io.Reader, out, errOut io.Writer, store *config.Store, opts addOptions) error {
	if opts.interactive && opts.fromFile != "" {
		return errors.New("cannot use --interactive with --from-file")
	}

	if opts.fromFile != "" {
		fmt.Fprintf(out, "Importing configuration from file: %s\n", opts.fromFile)
		p, err := importProfile(opts.fromFile)
		if err != nil {
			return err
		}
		opts.alias = p.AliasName
		return saveNewProfile(out, errOut, store, p, opts.force)
	}

	if err := validation.ValidateAlias(opts.alias); err != nil {
		return err
	}
	if _, exists := store.Get(opts.alias); exists && !opts.force {
		fmt.Fprintf(errOut, "Configuration '%s' already exists.\n", opts.alias)
		fmt.Fprintln(errOut, "Use --force to overwrite or choose a different alias name.")
		return nil
	}

	var (
		p   models.Profile
		err error
	)
	if opts.interactive {
		warnIgnoredFlags(errOut, opts)
		p, err = promptProfile(newPrompter(in, out, errOut), opts.alias)
	} else {
		p, err = profileFromOptions(opts)
	}
	if err != nil {
		return err
	}
	return saveNewProfile(out, errOut, store, p, opts.force)
}

func saveNewProfile(out, errOut io.Writer, store *config.Store, p models.Profile, force bool) error {
	_, existed := store.Get(p.AliasName)
	if existed && !force {
		fmt.Fprintf(errOut, "Configuration '%s' already exists.\n", p.AliasName)
		fmt.Fprintln(errOut, "Use --force to overwrite or choose a different alias name.")
		return nil
	}
	if err := validation.ValidateProfile(p); err != nil {
		return err
	}
	if err := validation.ValidateURL(p.URL); err != nil {
		fmt.Fprintln(errOut, warningStyle.Render("Warning: "+err.Error()))
	}
	if warning := validation.TokenFormatWarning(p.Token, p.URL); warning != "" {
		fmt.Fprintln(errOut, warningStyle.Render(warning))
	}

	store.Add(p)
	if err := store.Save(); err != nil {
		return err
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("Configuration '%s' added successfully", p.AliasName)))
	if existed {
		fmt.Fprintln(out, "(Overwrote existing configuration)")
	}
	return nil
}

func warnIgnoredFlags(errOut io.Writer, opts addOptions) {
	if opts.token != "" || opts.tokenArg != "" {
		fmt.Fprintln(errOut, "Warning: Token provided via flags/arguments will be ignored in interactive mode")
	}
	if opts.url != "" || opts.urlArg != "" {
		fmt.Fprintln(errOut, "Warning: URL provided via flags/arguments will be ignored in interactive mode")
	}
	if opts.model != "" || opts.smallFastModel != "" || opts.maxThinkingTokens != 0 ||
		opts.apiTimeoutMS != 0 || opts.disableTraffic != 0 || opts.defaultSonnetModel != "" ||
		opts.defaultOpusModel != "" || opts.defaultHaikuModel != "" {
		fmt.Fprintln(errOut, "Warning: Optional fields provided via flags will be ignored in interactive mode")
	}
}

// prompter reads answers line by line. The token is read without echo when
// the input is a terminal.
type prompter struct {
	in     io.Reader
	lines  *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newPrompter(in io.Reader, out, errOut io.Writer) *prompter {
	return &prompter{in: in, lines: bufio.NewReader(in), out: out, errOut: errOut}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(prompt string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return p.line(prompt)
	}
	fmt.Fprint(p.out, prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// number reads an optional numeric field. Blank and 0 leave it unset; an
// invalid value is skipped with a warning.
func (p *prompter) number(prompt, name string) (*uint32, error) {
	s, err := p.line(prompt)
	if err != nil || s == "" {
		return nil, err
	}
	n, convErr := strconv.ParseUint(s, 10, 32)
	if convErr != nil {
		fmt.Fprintf(p.errOut, "Warning: Invalid %s value, skipping\n", name)
		return nil, nil
	}
	return optionalUint(uint32(n)), nil
}

func promptProfile(p *prompter, alias string) (models.Profile, error) {
	prof := models.Profile{AliasName: alias}

	token, err := p.secret("Enter API token (sk-ant-xxx): ")
	if err != nil {
		return prof, err
	}
	if token == "" {
		return prof, errors.New("token cannot be empty")
	}
	prof.Token = token

	url, err := p.line("Enter API URL (default: " + defaultURL + "): ")
	if err != nil {
		return prof, err
	}
	prof.URL = firstNonEmpty(url, defaultURL)

	strs := []struct {
		prompt string
		target **string
	}{
		{"Enter model name (optional, press enter to skip): ", &prof.Model},
		{"Enter small fast model name (optional, press enter to skip): ", &prof.SmallFastModel},
	}
	for _, s := range strs {
		v, err := p.line(s.prompt)
		if err != nil {
			return prof, err
		}
		*s.target = optional(v)
	}

	nums := []struct {
		prompt string
		name   string
		target **uint32
	}{
		{"Enter maximum thinking tokens (optional, press enter to skip, enter 0 to clear): ", "max thinking tokens", &prof.MaxThinkingTokens},
		{"Enter API timeout in milliseconds (optional, press enter to skip, enter 0 to clear): ", "API timeout", &prof.APITimeoutMS},
		{"Enter disable nonessential traffic flag (optional, press enter to skip, enter 0 to clear): ", "disable nonessential traffic", &prof.DisableNonessentialTraffic},
	}
	for _, n := range nums {
		v, err := p.number(n.prompt, n.name)
		if err != nil {
			return prof, err
		}
		*n.target = v
	}

	defaults := []struct {
		prompt string
		target **string
	}{
		{"Enter default Sonnet model (optional, press enter to skip): ", &prof.DefaultSonnetModel},
		{"Enter default Opus model (optional, press enter to skip): ", &prof.DefaultOpusModel},
		{"Enter default Haiku model (optional, press enter to skip): ", &prof.DefaultHaikuModel},
	}
	for _, m := range defaults {
		v, err := p.line(m.prompt)
		if err != nil {
			return prof, err
		}
		*m.target = optional(v)
	}
	return prof, nil
}
