// Package input expands argument values that use - (stdin) or @file
// syntax into the lines they refer to.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrStdinReused is returned when - appears more than once.
var ErrStdinReused = errors.New("stdin can only be read once")

// Expand replaces "-" with the non-empty lines of stdin and "@path" with
// the non-empty lines of the file at path. Other values pass through.
func Expand(values []string, stdin io.Reader) ([]string, error) {
	var result []string
	stdinUsed := false
	for _, v := range values {
		switch {
		case v == "-":
			if stdinUsed {
				return nil, ErrStdinReused
			}
			stdinUsed = true
			lines, err := ReadLines(stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			result = append(result, lines...)
		case strings.HasPrefix(v, "@") && len(v) > 1:
			lines, err := readFile(strings.TrimPrefix(v, "@"))
			if err != nil {
				return nil, err
			}
			result = append(result, lines...)
		default:
			result = append(result, v)
		}
	}
	return result, nil
}

// IsExpandable reports whether any value would be expanded.
func IsExpandable(values []string) bool {
	for _, v := range values {
		if v == "-" || (strings.HasPrefix(v, "@") && len(v) > 1) {
			return true
		}
	}
	return false
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// ReadLines reads non-empty lines from a reader. Lines starting with #
// are comments.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
