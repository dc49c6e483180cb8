package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LineTableIsOneIndexed(t *testing.T) {
	f := New("mem", "assert 1 == 2\nassert 2 == 2\n")

	require.Len(t, f.Lines, 3)
	assert.Equal(t, "", f.Lines[0], "index 0 is a placeholder")
	assert.Equal(t, "assert 1 == 2", f.Line(1))
	assert.Equal(t, "assert 2 == 2", f.Line(2))
	assert.Equal(t, 2, f.LineCount())
}

func TestNew_NoTrailingNewline(t *testing.T) {
	f := New("mem", "x = 1\ny = 2")
	assert.Equal(t, 2, f.LineCount())
	assert.Equal(t, "y = 2", f.Line(2))
}

func TestNew_EmptyText(t *testing.T) {
	f := New("mem", "")
	assert.Equal(t, 0, f.LineCount())
	assert.Equal(t, "", f.Line(1))
}

func TestNew_NormalizesCRLF(t *testing.T) {
	f := New("mem", "a = 1\r\nb = 2\r\n")
	assert.Equal(t, "a = 1\nb = 2\n", f.Text)
	assert.Equal(t, "a = 1", f.Line(1))
}

func TestLine_OutOfRange(t *testing.T) {
	f := New("mem", "x = 1\n")
	assert.Equal(t, "", f.Line(0))
	assert.Equal(t, "", f.Line(-3))
	assert.Equal(t, "", f.Line(99))

	var nilFile *File
	assert.Equal(t, "", nilFile.Line(1))
}

func TestLoad_ReadsFileAndStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asserts.py")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("assert True\n")...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name)
	assert.Equal(t, "assert True", f.Line(1))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read source file")
}

func TestLoad_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.py")
	require.NoError(t, os.WriteFile(path, []byte{'a', 0xff, 0xfe, '\n'}, 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid UTF-8")
}
