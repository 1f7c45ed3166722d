package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects whether emit draws the per-module progress view.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = map[string]uiMode{"": uiModeAuto, "auto": uiModeAuto, "on": uiModeOn, "off": uiModeOff}

func readUIMode(value string) (uiMode, error) {
	if mode, ok := uiModeNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return mode, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// enabled reports whether the progress view should run; auto follows stdout.
func (m uiMode) enabled() bool {
	if m == uiModeAuto {
		return isTerminal(os.Stdout)
	}
	return m == uiModeOn
}
