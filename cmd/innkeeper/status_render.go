package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"innkeeper/internal/cardspec"
	"innkeeper/internal/extract"
)

type cardStatus int

const (
	statusValid cardStatus = iota
	statusLegacy
	statusInvalid
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const (
	statusLabelWidth = 28
	statusIndent     = "  "
)

// classifyCard maps one parse outcome to a status and its message. Legacy
// cards parse but carry no envelope, so they are flagged for upgrade.
func classifyCard(card extract.Card, err error) (cardStatus, string) {
	if err != nil {
		return statusInvalid, errorMessage(err)
	}
	message := generationLabel(card.SpecVersion)
	if card.Name != "" {
		message = fmt.Sprintf("%s card %q", message, card.Name)
	}
	if card.SpecVersion == cardspec.Legacy {
		return statusLegacy, message
	}
	return statusValid, message
}

func renderStatusLine(label string, status cardStatus, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", status.label())
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, fitLabel(label, statusLabelWidth-1)+":", statusText)
	if colorize {
		return status.color() + base + ansiReset
	}
	return base
}

// fitLabel keeps long card paths inside the label column by dropping
// leading directories, then the start of the file name.
func fitLabel(label string, width int) string {
	runes := []rune(label)
	if len(runes) <= width {
		return label
	}
	if base := filepath.Base(label); len([]rune(base))+4 <= width {
		return ".../" + base
	}
	return "..." + string(runes[len(runes)-width+3:])
}

func (s cardStatus) label() string {
	switch s {
	case statusValid:
		return "OK"
	case statusLegacy:
		return "LEGACY"
	default:
		return "INVALID"
	}
}

func (s cardStatus) color() string {
	switch s {
	case statusValid:
		return ansiGreen
	case statusLegacy:
		return ansiYellow
	default:
		return ansiRed
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
