package reader

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/csvframe/frame"
)

func column(t *testing.T, tbl *frame.Table, name string) []frame.Value {
	t.Helper()
	values, err := tbl.Column(name)
	require.NoError(t, err, "Column(%q)", name)
	return values
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		columns []string
		want    map[string][]frame.Value
	}{
		{
			name:    "quoted separator and empty field",
			input:   "a,b\n1,\"x,y\"\n,3",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"a": {int64(1), ""},
				"b": {"x,y", int64(3)},
			},
		},
		{
			name:    "escaped quotes",
			input:   "q\n\"he said \"\"hi\"\"\"\n\"\"\"x\"\"\"",
			columns: []string{"q"},
			want: map[string][]frame.Value{
				"q": {`he said "hi"`, "x"},
			},
		},
		{
			name:    "byte order mark",
			input:   "\ufeffa,b\n1,2",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"a": {int64(1)},
				"b": {int64(2)},
			},
		},
		{
			name:    "crlf and blank lines",
			input:   "\r\na,b\r\n1,2\r\n\r\n   \r\n3,4.5\r\n",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"a": {int64(1), int64(3)},
				"b": {int64(2), 4.5},
			},
		},
		{
			name:    "ragged rows are padded and truncated",
			input:   "a,b,c\n1\n1,2,3,4",
			columns: []string{"a", "b", "c"},
			want: map[string][]frame.Value{
				"a": {int64(1), int64(1)},
				"b": {nil, int64(2)},
				"c": {nil, int64(3)},
			},
		},
		{
			name:    "duplicate header names",
			input:   "a,a,b,a\n1,2,3,4",
			columns: []string{"a", "a.1", "b", "a.2"},
			want: map[string][]frame.Value{
				"a.2": {int64(4)},
			},
		},
		{
			name:    "whitespace trimmed outside quotes only",
			input:   " a , b \n 1 , \" two \" ",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"a": {int64(1)},
				"b": {" two "},
			},
		},
		{
			name:    "unterminated quote runs to end of line",
			input:   "a,b\n1,\"open, rest",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"b": {"open, rest"},
			},
		},
		{
			name:    "tab separator",
			input:   "a\tb\n1\t x y \n",
			opts:    Options{Separator: '\t'},
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"b": {"x y"},
			},
		},
		{
			name:    "header only",
			input:   "a,b\n",
			columns: []string{"a", "b"},
			want: map[string][]frame.Value{
				"a": {},
			},
		},
		{
			name:    "empty input",
			input:   "",
			columns: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(strings.NewReader(tt.input), tt.opts)
			require.NoError(t, err)
			require.Equal(t, tt.columns, tbl.Columns())
			for name, want := range tt.want {
				got := column(t, tbl, name)
				if len(want) == 0 {
					assert.Empty(t, got, "column %q", name)
					continue
				}
				assert.Equal(t, want, got, "column %q", name)
			}
		})
	}
}

func TestParse_Strict(t *testing.T) {
	for _, input := range []string{"a,b\n1", "a,b\n1,2,3"} {
		_, err := Parse(strings.NewReader(input), Options{Strict: true})
		assert.ErrorIs(t, err, frame.ErrMalformedRow, "Parse(%q)", input)
	}

	_, err := Parse(strings.NewReader("a,b\n1,2"), Options{Strict: true})
	assert.NoError(t, err, "well-formed strict input")
}

func TestParse_InvalidUTF8(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte{'a', '\n', 0xff, 0xfe, 'x'}), Options{})
	assert.ErrorIs(t, err, frame.ErrMalformedSource)
}

func TestParse_UTF16WithBOM(t *testing.T) {
	input := []byte{0xFF, 0xFE, 'a', 0, '\n', 0, '1', 0}
	tbl, err := Parse(bytes.NewReader(input), Options{})
	require.NoError(t, err)
	assert.Equal(t, []frame.Value{int64(1)}, column(t, tbl, "a"))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(failingReader{}, Options{})
	assert.ErrorIs(t, err, frame.ErrMalformedSource)
}

func TestParse_RestoresSeekPosition(t *testing.T) {
	r := strings.NewReader("skipa,b\n1,2\n")
	_, err := r.Seek(4, io.SeekStart)
	require.NoError(t, err)

	tbl, err := Parse(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())

	pos, _ := r.Seek(0, io.SeekCurrent)
	assert.Equal(t, int64(4), pos, "position after Parse()")

	again, err := Parse(r, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, again.NumRows())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,age\nann,31\nbob,\n"), 0o644))

	tbl, err := ParseFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []frame.Value{int64(31), ""}, column(t, tbl, "age"))

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err, "missing file")
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		line string
		sep  rune
		want []string
	}{
		{"a,b,c", ',', []string{"a", "b", "c"}},
		{"a,,c,", ',', []string{"a", "", "c", ""}},
		{`"x,y",z`, ',', []string{"x,y", "z"}},
		{`"a""b"`, ',', []string{`a"b`}},
		{`"x"tail ,y`, ',', []string{"xtail", "y"}},
		{`  "  padded  "  ,  b  `, ',', []string{"  padded  ", "b"}},
		{`ab"c,d`, ',', []string{`ab"c`, "d"}},
		{`"never closed,still`, ',', []string{"never closed,still"}},
		{"a;b,c", ';', []string{"a", "b,c"}},
		{"a\t\tb", '\t', []string{"a", "", "b"}},
		{"héllo,wörld", ',', []string{"héllo", "wörld"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitFields(tt.line, tt.sep), "SplitFields(%q)", tt.line)
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		in   string
		want frame.Value
	}{
		{"", ""},
		{"42", int64(42)},
		{"-3", int64(-3)},
		{"+7", int64(7)},
		{"2.5", 2.5},
		{"1e3", 1000.0},
		{"abc", "abc"},
		{`"7"`, int64(7)},
		{`""`, ""},
		{`"`, `"`},
		{"1,000", "1,000"},
		{"99999999999999999999", 1e20},
		{"007", int64(7)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertValue(tt.in), "ConvertValue(%q)", tt.in)
	}
}
