package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/cabinkeeper/internal/models"
	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
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

// GetWithDefault is GetSimpleText with the current value shown in brackets;
// an empty answer keeps it.
func GetWithDefault(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	v, err := GetSimpleText(reader, fmt.Sprintf("%s [%s]", prompt, current), w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// GetSecret reads a value without echo when stdin is a terminal. Otherwise
// (pipes, tests) it falls back to a plain line from reader, so the shared
// reader never loses buffered input.
func GetSecret(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return GetSimpleText(reader, prompt, w)
	}

	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	b, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm asks a y/N question. Anything but "y" or "yes" is a no.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	v, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ParseDateInput accepts YYYY-MM-DD, or "today".
func ParseDateInput(s string) (models.Date, error) {
	if strings.EqualFold(s, "today") {
		return models.Today(), nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return models.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseDeposit accepts a non-negative amount with an optional leading "$"
// and thousands separators. Empty input is zero; NaN and infinities are
// rejected since they cannot be stored.
func ParseDeposit(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("invalid amount %q, deposit cannot be negative", s)
	}
	return v, nil
}

func parseCabinID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid cabin id %q", s)
	}
	return id, nil
}
