package layout

import (
	"strings"

	"golang.org/x/term"
)

// DefaultWidth is assumed when the terminal size cannot be read
const DefaultWidth = 80

// ASCIIEnv forces the ASCII border style when set to a non-empty value
const ASCIIEnv = "CC_SWITCH_ASCII"

// Capabilities is what the renderer may rely on. It is detected once at
// startup and passed down.
type Capabilities struct {
	Unicode bool
	Width   int
}

// DetectCapabilities decides the border style from TERM, the locale
// variables and the CC_SWITCH_ASCII override. Width is set to DefaultWidth;
// callers with a terminal replace it with TerminalWidth.
func DetectCapabilities(getenv func(string) string) Capabilities {
	return Capabilities{
		Unicode: unicodeSupported(getenv),
		Width:   DefaultWidth,
	}
}

func unicodeSupported(getenv func(string) string) bool {
	if getenv(ASCIIEnv) != "" {
		return false
	}

	termType := getenv("TERM")
	if termType == "dumb" {
		return false
	}
	if strings.Contains(termType, "xterm") || strings.Contains(termType, "screen") || strings.Contains(termType, "tmux") {
		return true
	}

	locale := ""
	for _, name := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(name); v != "" {
			locale = v
			break
		}
	}
	if locale == "" {
		return true
	}
	l := strings.ToLower(locale)
	return strings.Contains(l, "utf-8") || strings.Contains(l, "utf8")
}

// TerminalWidth returns the column count of the terminal on fd, or
// DefaultWidth when fd is not a terminal
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return DefaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}
