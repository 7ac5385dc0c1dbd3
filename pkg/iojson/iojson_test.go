package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLine(&buf, map[string]int{"id": 1}))
	require.NoError(t, WriteLine(&buf, map[string]int{"id": 2}))
	assert.Equal(t, "{\"id\":1}\n{\"id\":2}\n", buf.String())
}

func TestWriteWith_marshal_error(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestFileReader_file(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"subject":"a"}]`), 0o644))

	fr := FileReader[[]map[string]string]{fileFlagValue: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "a", got[0]["subject"])
}

func TestFileReader_pipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(`{"subject":"piped"}`)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	defer func() { _ = r.Close() }()

	fr := FileReader[map[string]string]{stdin: r}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "piped", got["subject"])
}

func TestFileReader_missing_file(t *testing.T) {
	fr := FileReader[map[string]string]{fileFlagValue: filepath.Join(t.TempDir(), "nope.json")}
	_, err := fr.Read()
	assert.Error(t, err)
}
