package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

var stdout io.Writer = os.Stdout

var (
	errUsage      = errors.New("usage")
	errEmptyToken = errors.New("empty access token")
	errNoTerminal = errors.New("stdin is not a terminal; pass the token with -t")
)

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetToken prompts for the partner access token and reads it from the
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
func GetToken(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", errNoTerminal
	}
	if _, err := fmt.Fprint(w, "Enter access token: "); err != nil {
		return "", err
	}
	tok, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(tok))
	if s == "" {
		return "", errEmptyToken
	}
	return s, nil
}

// ParseValue converts user input into a value of the given kind.
//
//	text    the input with surrounding blanks trimmed
//	number  a decimal number, e.g. 4.5 or 0,89
//	list    comma separated items, blanks dropped: "airport, night"
func ParseValue(kind listing.Kind, raw string) (listing.Value, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case listing.KindText:
		return listing.Text(raw), nil
	case listing.KindNumber:
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return listing.Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return listing.Number(f), nil
	case listing.KindList:
		items := make([]string, 0)
		for _, it := range strings.Split(raw, ",") {
			if it = strings.TrimSpace(it); it != "" {
				items = append(items, it)
			}
		}
		return listing.List(items...), nil
	default:
		return listing.Value{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
