package tui

import (
	"fmt"
	"strconv"
	"strings"

	"ccswitch/config/models"
	"ccswitch/config/settings"
	"ccswitch/internal/layout"
	"ccswitch/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

const (
	mainMenuWidth   = 68
	configMenuWidth = 80
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	officialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	exitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	optionalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

const (
	mainHelp       = "↑↓/jk导航，1-3快选，Enter确认，Esc退出"
	pagedHelp      = "↑↓/jk导航，1-9快选，E-编辑，N/P翻页，R-官方，Q-退出，Enter确认"
	singlePageHelp = "↑↓/jk导航，1-9快选，E-编辑，R-官方，Q-退出，Enter确认，Esc取消"

	officialDescription = "Use official Claude API (no custom configuration)"
	exitDescription     = "Exit without making changes"
)

// boxWidth shrinks a fixed box width to the terminal when it is narrower
func boxWidth(base, termWidth int) int {
	if termWidth > 0 && termWidth < base {
		return termWidth
	}
	return base
}

// renderBox draws a titled box around lines
func renderBox(border layout.Border, title string, lines []string, width int) string {
	var b strings.Builder
	b.WriteString(borderStyle.Render(border.Top(title, width)))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(borderStyle.Render(border.Line(line, width, layout.AlignLeft)))
		b.WriteString("\n")
	}
	b.WriteString(borderStyle.Render(border.Bottom(width)))
	b.WriteString("\n")
	return b.String()
}

func pageInfo(page, total int) string {
	return fmt.Sprintf("第 %d 页，共 %d 页", page+1, total)
}

// RenderMainMenu renders the three-item main menu
func RenderMainMenu(menu MainMenu, caps layout.Capabilities) string {
	var b strings.Builder
	border := layout.NewBorder(caps)
	b.WriteString(renderBox(border, "Main Menu", []string{mainHelp}, boxWidth(mainMenuWidth, caps.Width)))
	b.WriteString("\n")

	for i, item := range mainItems {
		if MainItem(i) == menu.Cursor {
			b.WriteString(selectedStyle.Render("> ● " + item))
		} else {
			b.WriteString(dimStyle.Render("  ○ " + item))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSelector renders the paged configuration selector
func RenderSelector(sel *Selection, caps layout.Capabilities) string {
	var b strings.Builder
	border := layout.NewBorder(caps)
	width := boxWidth(configMenuWidth, caps.Width)

	var header []string
	if sel.PageCount() > 1 {
		header = []string{pageInfo(sel.Page(), sel.PageCount()), pagedHelp}
	} else {
		header = []string{singlePageHelp}
	}
	b.WriteString(renderBox(border, "Select Configuration", header, width))
	b.WriteString("\n")

	if sel.Cursor() == 0 {
		b.WriteString(officialStyle.Bold(true).Render("> ● [R] official"))
		b.WriteString("\n    " + officialDescription + "\n\n")
	} else {
		b.WriteString(officialStyle.Render("  ○ [R] official"))
		b.WriteString("\n")
	}

	start, _ := sel.PageBounds()
	for i, p := range sel.PageProfiles() {
		label := fmt.Sprintf("[%d] %s", i+1, p.AliasName)
		if sel.Cursor() == start+i+1 {
			b.WriteString(selectedStyle.Render("> ● " + label))
			b.WriteString("\n")
			for _, line := range profileDetails(p, "    ") {
				b.WriteString(line)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		} else {
			b.WriteString(dimStyle.Render("  ○ " + label))
			b.WriteString("\n")
		}
	}

	if sel.Cursor() == sel.ExitIndex() {
		b.WriteString(exitStyle.Bold(true).Render("> ● [Q] Exit"))
		b.WriteString("\n    " + exitDescription + "\n\n")
	} else {
		b.WriteString(dimStyle.Render("  ○ [Q] Exit"))
		b.WriteString("\n")
	}

	if sel.PageCount() > 1 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Page Navigation: [N]ext, [P]revious (%s)",
			pageInfo(sel.Page(), sel.PageCount()))))
		b.WriteString("\n")
	}
	return b.String()
}

type detail struct {
	label string
	value string
	style lipgloss.Style
}

func optionalString(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func optionalUint(u *uint32) (string, bool) {
	if u == nil {
		return "", false
	}
	return strconv.FormatUint(uint64(*u), 10), true
}

// profileDetails lists the masked token, the url and every set optional
// field with the labels padded to a common display width
func profileDetails(p models.Profile, indent string) []string {
	details := []detail{
		{label: "Token:", value: utils.MaskToken(p.Token), style: dimStyle},
		{label: "URL:", value: p.URL, style: valueStyle},
	}
	optional := []struct {
		label string
		get   func() (string, bool)
	}{
		{"Model:", func() (string, bool) { return optionalString(p.Model) }},
		{"Small Fast Model:", func() (string, bool) { return optionalString(p.SmallFastModel) }},
		{"Max Thinking Tokens:", func() (string, bool) { return optionalUint(p.MaxThinkingTokens) }},
		{"API Timeout (ms):", func() (string, bool) { return optionalUint(p.APITimeoutMS) }},
		{"Disable Nonessential Traffic:", func() (string, bool) { return optionalUint(p.DisableNonessentialTraffic) }},
		{"Default Sonnet Model:", func() (string, bool) { return optionalString(p.DefaultSonnetModel) }},
		{"Default Opus Model:", func() (string, bool) { return optionalString(p.DefaultOpusModel) }},
		{"Default Haiku Model:", func() (string, bool) { return optionalString(p.DefaultHaikuModel) }},
	}

	labelWidth := 0
	for _, o := range optional {
		if w := layout.DisplayWidth(o.label); w > labelWidth {
			labelWidth = w
		}
	}
	for _, o := range optional {
		if v, ok := o.get(); ok {
			details = append(details, detail{label: o.label, value: v, style: optionalStyle})
		}
	}

	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, indent+layout.PadToWidth(d.label, labelWidth, layout.AlignLeft, ' ')+" "+d.style.Render(d.value))
	}
	return lines
}

// renderEditorMenu lists the editable fields with their current values
func renderEditorMenu(e *FieldEditor, caps layout.Capabilities) string {
	var b strings.Builder
	border := layout.NewBorder(caps)

	title := "配置编辑模式"
	editing := "正在编辑配置: " + e.Original
	width := layout.OptimalBoxWidth(40, configMenuWidth, layout.DisplayWidth(editing)+4, caps.Width)
	b.WriteString(renderBox(border, title, []string{editing}, width))
	b.WriteString("\n")

	rule := separatorStyle.Render(strings.Repeat("─", 25))
	b.WriteString(titleStyle.Render("当前配置值:"))
	b.WriteString("\n" + rule + "\n")
	for _, f := range Fields() {
		b.WriteString(fmt.Sprintf("%s. %s: %s\n", f.Key(), formLabelStyle.Render(f.Label()), formValueStyle.Render(e.Value(f))))
	}
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("S. %s | Q. %s\n", formFocusedStyle.Render("保存更改"), "返回上一级菜单"))
	return b.String()
}

// RenderOutcome reports what a switch did to the settings file
func RenderOutcome(o *settings.Outcome) string {
	if o == nil {
		return ""
	}
	var b strings.Builder
	if len(o.Removed) > 0 {
		b.WriteString(fmt.Sprintf("Removed %s from Claude settings (%s)\n", strings.Join(o.Removed, ", "), o.Path))
	}
	if len(o.Written) > 0 {
		b.WriteString(fmt.Sprintf("Wrote %s to Claude settings (%s)\n", strings.Join(o.Written, ", "), o.Path))
	}
	return b.String()
}
