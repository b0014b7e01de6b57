package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes lowercase lf", input: "y\n", want: true},
		{name: "yes word lf", input: "yes\n", want: true},
		{name: "yes mixed case lf", input: "YeS\n", want: true},
		{name: "yes word cr", input: "yes\r", want: true},
		{name: "no default lf", input: "\n", want: false},
		{name: "no explicit cr", input: "n\r", want: false},
		{name: "empty input defaults yes", input: "\n", defaultYes: true, want: true},
		{name: "explicit no overrides yes default", input: "n\n", defaultYes: true, want: false},
		{name: "eof is no", input: "", defaultYes: true, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got := newLineReader(strings.NewReader(tc.input)).confirm(&out, "Confirm? ", tc.defaultYes)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, "Confirm? ", out.String())
		})
	}
}

func TestLineReader_CRLFYieldsOneLine(t *testing.T) {
	t.Parallel()

	r := newLineReader(strings.NewReader("first\r\nsecond\r\n"))
	first, err := r.ReadLine()
	require.NoError(t, err)
	second, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "first", first)
	assert.Equal(t, "second", second)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_EOFWithoutNewline(t *testing.T) {
	t.Parallel()

	got, err := newLineReader(strings.NewReader("yes")).ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestLineReader_PromptIntRetriesOutOfRange(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := newLineReader(strings.NewReader("9\nabc\n3\n"))
	n, ok, err := r.promptInt(&out, "Fog (1-5): ", 1, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, strings.Count(out.String(), "Enter a number from 1 to 5."))
}

func TestLineReader_PromptIntEmptySkips(t *testing.T) {
	t.Parallel()

	_, ok, err := newLineReader(strings.NewReader("\n")).promptInt(io.Discard, "", 1, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}
