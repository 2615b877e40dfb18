package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui flag: the live progress view for directory checks.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "", uiModeAuto:
		return uiModeAuto, nil
	case uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled: прогресс рисуется только поверх pretty-вывода и не в --quiet.
// В auto нужен терминал на stdout.
func (m uiMode) enabled(format string, quiet bool) bool {
	if quiet || format != "pretty" {
		return false
	}
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	}
	return isTerminal(os.Stdout)
}
