package normalize

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantDropped int
	}{
		{
			name:        "single page smoke scenario",
			in:          "42\nPlaintiff v. Defendant\n\f",
			want:        "Plaintiff v. Defendant\n",
			wantDropped: 1,
		},
		{
			name:        "page number at the start of a following page",
			in:          "Intro\n\f2\nArgument\n\f",
			want:        "Intro\nArgument\n",
			wantDropped: 1,
		},
		{
			name:        "padded page numbers dropped",
			in:          "  7  \nText\n\t12\t\n",
			want:        "Text\n",
			wantDropped: 2,
		},
		{
			name:        "mixed digit lines kept verbatim",
			in:          "Case No. 4:20-cv-05640\n2021\n 2021 WL 123 \n",
			want:        "Case No. 4:20-cv-05640\n 2021 WL 123 \n",
			wantDropped: 1,
		},
		{
			name: "blank lines kept",
			in:   "a\n\n   \nb\n",
			want: "a\n\n   \nb\n",
		},
		{
			name:        "CRLF terminators preserved",
			in:          "Caption\r\n3\r\nBody\r\n",
			want:        "Caption\r\nBody\r\n",
			wantDropped: 1,
		},
		{
			name: "final line without terminator",
			in:   "first\nlast",
			want: "first\nlast",
		},
		{
			name:        "final digit line without terminator",
			in:          "first\n99",
			want:        "first\n",
			wantDropped: 1,
		},
		{
			name:        "non-ASCII decimal digits",
			in:          "٣\nالنص\n",
			want:        "النص\n",
			wantDropped: 1,
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reader(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Text)
			assert.Equal(t, tt.wantDropped, got.Dropped)
		})
	}
}

func TestReader_KeptLinesInOrder(t *testing.T) {
	in := "1\nalpha\n2\nbeta\n3\ngamma\n"
	got, err := Reader(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\ngamma\n", got.Text)
	assert.Equal(t, 3, got.Kept)
	assert.Equal(t, 3, got.Dropped)
}

func TestReader_InvalidUTF8(t *testing.T) {
	_, err := Reader(strings.NewReader("fine\nbad \xfe\xff\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
	assert.Contains(t, err.Error(), "line 2")
}

func TestIsPageNumber(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"42", true},
		{" 42\n", true},
		{"0", true},
		{"", false},
		{"   \n", false},
		{"4-2", false},
		{"42.", false},
		{"-3", false},
		{"Page 3", false},
		{"iv", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPageNumber(tt.line))
		})
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.txt")
	require.NoError(t, os.WriteFile(path, []byte("1\nEpic Games, Inc. v. Apple Inc.\n\f"), 0o644))

	got, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "Epic Games, Inc. v. Apple Inc.\n", got.Text)
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
