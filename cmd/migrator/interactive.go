package main

import (
	"github.com/charmbracelet/huh"
)

// huhOracle is the real, terminal-driven implementation of
// migration.Oracle, backed by interactive huh prompts.
type huhOracle struct{}

func (huhOracle) AskYesNo(prompt string) bool {
	var answer bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return false
	}
	return answer
}

func (huhOracle) AskText(prompt string) string {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(prompt).
				Value(&answer),
		),
	)
	if err := form.Run(); err != nil {
		return ""
	}
	return answer
}
