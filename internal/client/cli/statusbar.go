package cli

import (
	"os"

	"golang.org/x/term"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/draft"
)

// getSize is a test seam for term.GetSize.
var getSize = term.GetSize

const defaultWidth = 80

// terminalWidth returns the width of stdout, or defaultWidth when stdout
// is not a terminal.
func terminalWidth() int {
	w, _, err := getSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// statusLine renders the prompt status, cut to fit width columns.
func statusLine(conn string, st draft.Status, width int) string {
	s := conn + " | " + st.String()
	// leave room for the prompt decoration
	limit := width - len("tv>  > ")
	if limit < 10 {
		limit = 10
	}
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit-1]) + "…"
	}
	return s
}
