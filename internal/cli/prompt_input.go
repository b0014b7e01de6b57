package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// lineReader reads one line at a time without buffering past the line end,
// so several prompts can share the same stdin. It accepts LF, CR and CRLF
// endings so Enter works in normal and raw terminal modes.
type lineReader struct {
	in     io.Reader
	lastCR bool
}

func newLineReader(in io.Reader) *lineReader {
	return &lineReader{in: in}
}

func (r *lineReader) ReadLine() (string, error) {
	if r.in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := r.in.Read(one[:])
		if n > 0 {
			c := one[0]
			skip := c == '\n' && r.lastCR && len(buf) == 0
			r.lastCR = c == '\r'
			switch {
			case skip:
			case c == '\n' || c == '\r':
				return string(buf), nil
			default:
				buf = append(buf, c)
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}

// prompt prints message and returns the trimmed answer.
func (r *lineReader) prompt(out io.Writer, message string) (string, error) {
	if out != nil && message != "" {
		fmt.Fprint(out, message)
	}
	line, err := r.ReadLine()
	return strings.TrimSpace(line), err
}

// confirm asks a yes/no question. Empty input and EOF select defaultYes and
// false respectively.
func (r *lineReader) confirm(out io.Writer, message string, defaultYes bool) bool {
	text, err := r.prompt(out, message)
	if err != nil && text == "" {
		return false
	}
	text = strings.ToLower(text)
	if text == "" {
		return defaultYes
	}
	return text == "y" || text == "yes"
}

// promptInt asks until the answer is an integer within [min, max]. An empty
// answer returns ok=false.
func (r *lineReader) promptInt(out io.Writer, message string, min, max int) (value int, ok bool, err error) {
	for {
		text, err := r.prompt(out, message)
		if text == "" {
			return 0, false, err
		}
		n, convErr := strconv.Atoi(text)
		if convErr == nil && n >= min && n <= max {
			return n, true, nil
		}
		if err != nil {
			return 0, false, err
		}
		fmt.Fprintf(out, "Enter a number from %d to %d.\n", min, max)
	}
}
