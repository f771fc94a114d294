// Package shell renders the alias snippets users add to their shell startup
// files.
package shell

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
)

const posixAliasTemplate = `alias {{.SwitchAlias}}='{{.Binary}}'
alias {{.LaunchAlias}}='{{.Assistant}} --dangerously-skip-permissions'
`

// fish accepts the same alias syntax as bash and zsh
var aliasTemplates = map[string]string{
	"bash": posixAliasTemplate,
	"zsh":  posixAliasTemplate,
	"fish": posixAliasTemplate,
}

// UnsupportedShellError is returned for a shell without an alias template
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("Unsupported shell: %s. Supported shells: fish, zsh, bash", e.Shell)
}

// Shells lists the shells Generate understands
func Shells() []string {
	names := make([]string, 0, len(aliasTemplates))
	for name := range aliasTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Generator struct {
	Shell       string
	Binary      string
	Assistant   string
	SwitchAlias string
	LaunchAlias string
}

func NewGenerator(shell string) *Generator {
	return &Generator{
		Shell:       shell,
		Binary:      "cc-switch",
		Assistant:   "claude",
		SwitchAlias: "cs",
		LaunchAlias: "ccd",
	}
}

func (g *Generator) Generate() (string, error) {
	text, ok := aliasTemplates[g.Shell]
	if !ok {
		return "", &UnsupportedShellError{Shell: g.Shell}
	}

	tmpl, err := template.New(g.Shell).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, g); err != nil {
		return "", err
	}

	return buf.String(), nil
}
