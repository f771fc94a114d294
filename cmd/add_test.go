package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ccswitch/config/models"
)

func TestAddCmd(t *testing.T) {
	t.Run("Command definition", func(t *testing.T) {
		expected := "add [alias] [token] [url]"
		if addCmd.Use != expected {
			t.Errorf("addCmd.Use = %q, want %q", addCmd.Use, expected)
		}
	})

	t.Run("RunE is set", func(t *testing.T) {
		if addCmd.RunE == nil {
			t.Error("addCmd.RunE should not be nil")
		}
	})

	t.Run("Flags are defined", func(t *testing.T) {
		flags := []struct {
			name      string
			shorthand string
		}{
			{"token", "t"},
			{"url", "u"},
			{"model", "m"},
			{"small-fast-model", ""},
			{"max-thinking-tokens", ""},
			{"api-timeout-ms", ""},
			{"disable-nonessential-traffic", ""},
			{"default-sonnet-model", ""},
			{"default-opus-model", ""},
			{"default-haiku-model", ""},
			{"force", "f"},
			{"interactive", "i"},
			{"from-file", "j"},
		}
		for _, f := range flags {
			flag := addCmd.Flags().Lookup(f.name)
			if flag == nil {
				t.Errorf("flag --%s should be defined", f.name)
				continue
			}
			if flag.Shorthand != f.shorthand {
				t.Errorf("flag --%s shorthand = %q, want %q", f.name, flag.Shorthand, f.shorthand)
			}
		}
	})

	t.Run("Args rejects more than 3 arguments", func(t *testing.T) {
		if err := addCmd.Args(addCmd, []string{"a", "b", "c", "d"}); err == nil {
			t.Error("Args should return error for 4 arguments")
		}
		if err := addCmd.Args(addCmd, []string{"a", "b", "c"}); err != nil {
			t.Errorf("Args should accept 3 arguments, got %v", err)
		}
	})
}

// TestRunAdd tests adding profiles from flags and positional arguments
func TestRunAdd(t *testing.T) {
	tests := []struct {
		name       string
		existing   []models.Profile
		opts       addOptions
		wantErr    string
		wantOut    string
		wantErrOut string
		check      func(t *testing.T, p *models.Profile, ok bool)
	}{
		{
			name:    "flags",
			opts:    addOptions{alias: "work", token: "sk-ant-api03-abc", url: "https://api.anthropic.com", model: "claude-opus-4"},
			wantOut: "Configuration 'work' added successfully",
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if !ok {
					t.Fatal("profile not stored")
				}
				if p.Model == nil || *p.Model != "claude-opus-4" {
					t.Errorf("Model = %v, want claude-opus-4", p.Model)
				}
				if p.SmallFastModel != nil {
					t.Errorf("SmallFastModel = %v, want nil", *p.SmallFastModel)
				}
			},
		},
		{
			name: "positional arguments",
			opts: addOptions{alias: "proxy", tokenArg: "tok-123", urlArg: "https://proxy.example.com"},
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if !ok {
					t.Fatal("profile not stored")
				}
				if p.Token != "tok-123" || p.URL != "https://proxy.example.com" {
					t.Errorf("profile = %+v", *p)
				}
			},
		},
		{
			name:       "default url",
			opts:       addOptions{alias: "plain", token: "tok"},
			wantErrOut: "should start with 'sk-ant-api03-'",
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if !ok || p.URL != defaultURL {
					t.Errorf("URL = %v, want %s", p, defaultURL)
				}
			},
		},
		{
			name: "numeric flags",
			opts: addOptions{alias: "nums", token: "tok", url: "https://proxy.example.com", maxThinkingTokens: 2048, apiTimeoutMS: 0},
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if p.MaxThinkingTokens == nil || *p.MaxThinkingTokens != 2048 {
					t.Errorf("MaxThinkingTokens = %v, want 2048", p.MaxThinkingTokens)
				}
				if p.APITimeoutMS != nil {
					t.Errorf("APITimeoutMS = %v, want nil", *p.APITimeoutMS)
				}
			},
		},
		{
			name:    "missing token",
			opts:    addOptions{alias: "work"},
			wantErr: "token is required",
		},
		{
			name:    "reserved alias",
			opts:    addOptions{alias: "cc", token: "tok"},
			wantErr: "reserved",
		},
		{
			name:       "invalid url warns",
			opts:       addOptions{alias: "work", token: "tok", url: "not a url"},
			wantOut:    "Configuration 'work' added successfully",
			wantErrOut: "invalid URL format",
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if !ok || p.URL != "not a url" {
					t.Errorf("profile = %v, want stored with url as given", p)
				}
			},
		},
		{
			name:       "existing without force",
			existing:   []models.Profile{testProfile("work")},
			opts:       addOptions{alias: "work", token: "other"},
			wantErrOut: "Configuration 'work' already exists.",
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if p.Token != "sk-ant-api03-work" {
					t.Errorf("Token = %q, existing profile was overwritten", p.Token)
				}
			},
		},
		{
			name:     "existing with force",
			existing: []models.Profile{testProfile("work")},
			opts:     addOptions{alias: "work", token: "sk-ant-api03-new", force: true},
			wantOut:  "(Overwrote existing configuration)",
			check: func(t *testing.T, p *models.Profile, ok bool) {
				if p.Token != "sk-ant-api03-new" {
					t.Errorf("Token = %q, want sk-ant-api03-new", p.Token)
				}
			},
		},
		{
			name:    "interactive with file",
			opts:    addOptions{interactive: true, fromFile: "x.json"},
			wantErr: "cannot use --interactive with --from-file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, tt.existing...)
			var out, errOut bytes.Buffer

			err := runAdd(strings.NewReader(""), &out, &errOut, store, tt.opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("runAdd() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("runAdd() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
			if !strings.Contains(errOut.String(), tt.wantErrOut) {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantErrOut)
			}
			if tt.check != nil {
				p, ok := reopen(t, store).Get(tt.opts.alias)
				tt.check(t, p, ok)
			}
		})
	}
}

// TestRunAddInteractive tests the prompt sequence
func TestRunAddInteractive(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		store := newTestStore(t)
		input := strings.Join([]string{
			"sk-ant-api03-secret",
			"",
			"claude-opus-4",
			"",
			"4096",
			"abc",
			"0",
			"sonnet-x",
			"",
			"haiku-x",
		}, "\n") + "\n"

		var out, errOut bytes.Buffer
		opts := addOptions{alias: "work", interactive: true, token: "ignored"}
		if err := runAdd(strings.NewReader(input), &out, &errOut, store, opts); err != nil {
			t.Fatalf("runAdd() error = %v", err)
		}

		if !strings.Contains(errOut.String(), "will be ignored in interactive mode") {
			t.Errorf("stderr = %q, want ignored flag warning", errOut.String())
		}
		if !strings.Contains(errOut.String(), "Warning: Invalid API timeout value, skipping") {
			t.Errorf("stderr = %q, want invalid number warning", errOut.String())
		}

		p, ok := reopen(t, store).Get("work")
		if !ok {
			t.Fatal("profile not stored")
		}
		if p.Token != "sk-ant-api03-secret" || p.URL != defaultURL {
			t.Errorf("token/url = %q/%q", p.Token, p.URL)
		}
		if p.Model == nil || *p.Model != "claude-opus-4" {
			t.Errorf("Model = %v", p.Model)
		}
		if p.SmallFastModel != nil {
			t.Errorf("SmallFastModel = %q, want nil", *p.SmallFastModel)
		}
		if p.MaxThinkingTokens == nil || *p.MaxThinkingTokens != 4096 {
			t.Errorf("MaxThinkingTokens = %v", p.MaxThinkingTokens)
		}
		if p.APITimeoutMS != nil || p.DisableNonessentialTraffic != nil {
			t.Errorf("APITimeoutMS = %v, DisableNonessentialTraffic = %v, want nil", p.APITimeoutMS, p.DisableNonessentialTraffic)
		}
		if p.DefaultSonnetModel == nil || *p.DefaultSonnetModel != "sonnet-x" {
			t.Errorf("DefaultSonnetModel = %v", p.DefaultSonnetModel)
		}
		if p.DefaultOpusModel != nil {
			t.Errorf("DefaultOpusModel = %q, want nil", *p.DefaultOpusModel)
		}
		if p.DefaultHaikuModel == nil || *p.DefaultHaikuModel != "haiku-x" {
			t.Errorf("DefaultHaikuModel = %v", p.DefaultHaikuModel)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		store := newTestStore(t)
		var out, errOut bytes.Buffer
		err := runAdd(strings.NewReader("\n"), &out, &errOut, store, addOptions{alias: "work", interactive: true})
		if err == nil || !strings.Contains(err.Error(), "token cannot be empty") {
			t.Fatalf("runAdd() error = %v, want empty token error", err)
		}
		if store.Len() != 0 {
			t.Errorf("store.Len() = %d, want 0", store.Len())
		}
	})
}

func writeImportFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// TestImportProfile tests reading the env section of exported settings files
func TestImportProfile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    models.Profile
		wantErr string
	}{
		{
			name: "json",
			file: "work.json",
			content: `{
  "env": {
    "ANTHROPIC_AUTH_TOKEN": "sk-ant-api03-x",
    "ANTHROPIC_BASE_URL": "https://api.anthropic.com",
    "ANTHROPIC_MODEL": "claude-opus-4",
    "API_TIMEOUT_MS": 60000,
    "UNRELATED": "kept out"
  },
  "permissions": {"allow": []}
}`,
			want: models.Profile{
				AliasName:    "work",
				Token:        "sk-ant-api03-x",
				URL:          "https://api.anthropic.com",
				Model:        models.StringPtr("claude-opus-4"),
				APITimeoutMS: models.Uint32Ptr(60000),
			},
		},
		{
			name: "yaml",
			file: "proxy.yaml",
			content: `env:
  ANTHROPIC_AUTH_TOKEN: tok
  ANTHROPIC_BASE_URL: https://proxy.example.com
  ANTHROPIC_MAX_THINKING_TOKENS: 1024
  ANTHROPIC_SMALL_FAST_MODEL:
`,
			want: models.Profile{
				AliasName:         "proxy",
				Token:             "tok",
				URL:               "https://proxy.example.com",
				MaxThinkingTokens: models.Uint32Ptr(1024),
			},
		},
		{
			name:    "invalid json",
			file:    "bad.json",
			content: `{"env": `,
			wantErr: "invalid JSON",
		},
		{
			name:    "no env section",
			file:    "noenv.json",
			content: `{"permissions": {}}`,
			wantErr: "no valid 'env' section",
		},
		{
			name:    "missing token",
			file:    "notoken.yml",
			content: "env:\n  ANTHROPIC_BASE_URL: https://proxy.example.com\n",
			wantErr: "ANTHROPIC_AUTH_TOKEN is missing",
		},
		{
			name:    "missing url",
			file:    "nourl.json",
			content: `{"env": {"ANTHROPIC_AUTH_TOKEN": "tok"}}`,
			wantErr: "ANTHROPIC_BASE_URL is missing",
		},
		{
			name:    "bad number",
			file:    "badnum.json",
			content: `{"env": {"ANTHROPIC_AUTH_TOKEN": "tok", "ANTHROPIC_BASE_URL": "https://x.example.com", "API_TIMEOUT_MS": "soon"}}`,
			wantErr: "invalid API_TIMEOUT_MS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImportFile(t, tt.file, tt.content)
			got, err := importProfile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("importProfile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("importProfile() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("importProfile() = %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := importProfile(filepath.Join(t.TempDir(), "none.json")); err == nil {
			t.Error("importProfile() should fail for a missing file")
		}
	})
}

// TestRunAddFromFile tests importing through the add command
func TestRunAddFromFile(t *testing.T) {
	path := writeImportFile(t, "imported.json", `{"env": {"ANTHROPIC_AUTH_TOKEN": "tok", "ANTHROPIC_BASE_URL": "https://proxy.example.com"}}`)
	store := newTestStore(t)

	var out, errOut bytes.Buffer
	if err := runAdd(strings.NewReader(""), &out, &errOut, store, addOptions{fromFile: path}); err != nil {
		t.Fatalf("runAdd() error = %v", err)
	}
	if !strings.Contains(out.String(), "Importing configuration from file") {
		t.Errorf("output = %q", out.String())
	}
	if _, ok := reopen(t, store).Get("imported"); !ok {
		t.Error("imported profile not stored")
	}
}
