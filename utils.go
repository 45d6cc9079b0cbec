package main

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText reduces pasted text to something usable as a
// filter: the first non-blank line, trimmed and without control runes.
func cleanClipboardText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		line = strings.Map(func(r rune) rune {
			if r < 0x20 || r == 0x7f {
				return -1
			}
			return r
		}, line)
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// discoveriesText lists every discovered element, one label per line.
func (m *model) discoveriesText() string {
	var b strings.Builder
	for _, k := range m.catalog.Kinds() {
		b.WriteString(k.Label())
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) copyDiscoveries() error {
	return clipboard.WriteAll(m.discoveriesText())
}
