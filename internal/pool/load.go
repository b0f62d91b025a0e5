package pool

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Delimiter separates a column label from its value in a value file line.
const Delimiter = "::"

// escapedNewline is the two-character sequence that stands for a line break
// inside a value, for card spaces that span several lines.
const escapedNewline = `\n`

// Load reads a value file. Each non-empty line is either "value" or
// "label::value"; the first line decides which format the whole file uses.
func Load(path string) (Pool, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Pool{}, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	return Parse(f, path)
}

type line struct {
	number int
	text   string
}

// Parse reads value file content from r. name is used in error messages.
func Parse(r io.Reader, name string) (Pool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []line
	for n := 1; scanner.Scan(); n++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines = append(lines, line{number: n, text: text})
	}
	if err := scanner.Err(); err != nil {
		return Pool{}, &InputError{Path: name, Err: err}
	}
	if len(lines) == 0 {
		return Pool{}, &InputError{Path: name, Err: ErrEmptySource}
	}

	if !strings.Contains(lines[0].text, Delimiter) {
		values := make([]string, len(lines))
		for i, l := range lines {
			values[i] = decodeValue(l.text)
		}
		return NewUnlabeled(values...), nil
	}

	var columns []Column
	index := make(map[string]int)
	for _, l := range lines {
		parts := strings.Split(l.text, Delimiter)
		if len(parts) < 2 {
			return Pool{}, &InputError{
				Path: name,
				Line: l.number,
				Err:  errors.New(`expected "label::value" like the first line`),
			}
		}
		label := strings.TrimSpace(parts[0])
		value := decodeValue(parts[1])

		i, ok := index[label]
		if !ok {
			i = len(columns)
			index[label] = i
			columns = append(columns, Column{Label: label})
		}
		columns[i].Values = append(columns[i].Values, value)
	}
	return NewLabeled(columns...), nil
}

func decodeValue(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	return strings.ReplaceAll(s, escapedNewline, "\n")
}
