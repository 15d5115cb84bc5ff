package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	encunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/vegasq/csvframe/frame"
)

// Options controls how delimited text is parsed.
type Options struct {
	// Separator between fields. Zero means ','.
	Separator rune

	// Strict rejects rows whose field count differs from the header with
	// frame.ErrMalformedRow. Otherwise short rows are padded with nulls and
	// extra fields are dropped.
	Strict bool
}

func (o Options) separator() rune {
	if o.Separator == 0 {
		return ','
	}
	return o.Separator
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseFile parses the delimited text file at path.
func ParseFile(path string, opts Options) (*frame.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Parse(file, opts)
}

// Parse reads r to the end and parses it as delimited text: the first
// non-blank line is the header and every following non-blank line is a
// row. Fields are typed with ConvertValue.
//
// When r is also an io.Seeker its position is restored afterwards, so a
// caller-owned handle can be read again.
func Parse(r io.Reader, opts Options) (*frame.Table, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	text, err := decode(data)
	if err != nil {
		return nil, err
	}
	return parseText(text, opts)
}

// readAll consumes r, rewinding it to its starting offset when possible.
func readAll(r io.Reader) ([]byte, error) {
	seeker, ok := r.(io.Seeker)
	start := int64(-1)
	if ok {
		if pos, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			start = pos
		}
	}

	data, readErr := io.ReadAll(r)
	if start >= 0 {
		if _, err := seeker.Seek(start, io.SeekStart); err != nil && readErr == nil {
			readErr = fmt.Errorf("failed to restore position: %w", err)
		}
	}
	if readErr != nil {
		return nil, fmt.Errorf("%w: failed to read source: %w", frame.ErrMalformedSource, readErr)
	}
	return data, nil
}

// decode returns data as text without a leading byte order mark. UTF-8 is
// expected; UTF-16 is accepted only when announced by a BOM.
func decode(data []byte) (string, error) {
	if !bytes.HasPrefix(data, bomUTF16LE) && !bytes.HasPrefix(data, bomUTF16BE) && !utf8.Valid(data) {
		return "", fmt.Errorf("%w: input is not valid UTF-8", frame.ErrMalformedSource)
	}
	out, _, err := transform.Bytes(encunicode.BOMOverride(encunicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to decode: %w", frame.ErrMalformedSource, err)
	}
	return string(out), nil
}

func parseText(text string, opts Options) (*frame.Table, error) {
	sep := opts.separator()

	var header []string
	var data [][]frame.Value
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := SplitFields(line, sep)
		if header == nil {
			header = uniqueNames(fields)
			data = make([][]frame.Value, len(header))
			continue
		}

		if opts.Strict && len(fields) != len(header) {
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d",
				frame.ErrMalformedRow, lineNo+1, len(fields), len(header))
		}
		for c := range header {
			var v frame.Value
			if c < len(fields) {
				v = ConvertValue(fields[c])
			}
			data[c] = append(data[c], v)
		}
	}

	cols := make([]*frame.Column, len(header))
	for c, name := range header {
		cols[c] = &frame.Column{Name: name, Values: data[c]}
	}
	return frame.NewTable(cols...)
}

// uniqueNames returns the header names, renaming repeats to name.1,
// name.2 and so on.
func uniqueNames(fields []string) []string {
	names := make([]string, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, name := range fields {
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}

// SplitFields tokenizes one line. A field may be wrapped in double quotes
// to contain the separator, with "" standing for a literal quote. Outside
// quotes, whitespace around a field is trimmed. An unterminated quote runs
// to the end of the line, and text between a closing quote and the next
// separator is appended to the field.
func SplitFields(line string, sep rune) []string {
	rs := []rune(line)
	fields := make([]string, 0, 8)
	var quoted strings.Builder

	i := 0
	for {
		for i < len(rs) && rs[i] != sep && unicode.IsSpace(rs[i]) {
			i++
		}

		if i < len(rs) && rs[i] == '"' {
			quoted.Reset()
			for i++; i < len(rs); i++ {
				if rs[i] != '"' {
					quoted.WriteRune(rs[i])
					continue
				}
				if i+1 < len(rs) && rs[i+1] == '"' {
					quoted.WriteRune('"')
					i++
					continue
				}
				i++
				break
			}
			start := i
			for i < len(rs) && rs[i] != sep {
				i++
			}
			fields = append(fields, quoted.String()+strings.TrimSpace(string(rs[start:i])))
		} else {
			start := i
			for i < len(rs) && rs[i] != sep {
				i++
			}
			fields = append(fields, strings.TrimSpace(string(rs[start:i])))
		}

		if i >= len(rs) {
			return fields
		}
		i++
	}
}

// ConvertValue types a field: the empty string stays text, a value wrapped
// in one pair of double quotes loses them, then int64 and float64 parses
// are tried in turn before falling back to text.
func ConvertValue(s string) frame.Value {
	if s == "" {
		return s
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
