package display

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// Block characters from lowest to highest fill.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

const fallbackTerminalWidth = 80

// Sparkline renders a one-line trend of the given samples, scaled to the
// observed maximum. When there are more samples than columns only the most
// recent ones are shown.
func Sparkline(values []int, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		idx := 0
		if max > 0 {
			idx = v * (len(sparkBlocks) - 1) / max
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}

// Graph renders a multi-row bar graph of the given samples, one string per
// row, top row first. Height rows of resolution beat a sparkline's eight
// levels for the live trend panel.
func Graph(values []int, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	levels := height * len(sparkBlocks)
	rows := make([]string, height)

	for row := 0; row < height; row++ {
		var b strings.Builder
		// Fill level covered by rows below this one.
		floor := (height - row - 1) * len(sparkBlocks)

		for _, v := range values {
			level := 0
			if max > 0 {
				level = v * levels / max
			}

			switch {
			case level <= floor:
				b.WriteRune(' ')
			case level >= floor+len(sparkBlocks):
				b.WriteRune(sparkBlocks[len(sparkBlocks)-1])
			default:
				b.WriteRune(sparkBlocks[level-floor-1])
			}
		}

		rows[row] = b.String()
	}

	return rows
}

// TerminalWidth returns the current terminal width, falling back to a sane
// default when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTerminalWidth
	}
	return width
}
