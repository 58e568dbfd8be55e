package videosource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparePassthrough(t *testing.T) {
	for _, source := range []string{
		"https://example.com/clip.mp4",
		"http://example.com/clip.mp4",
		"data:video/mp4;base64,AAAA",
		"blob:https://example.com/123",
	} {
		prepared, err := Prepare(source)
		require.NoError(t, err)
		assert.Equal(t, source, prepared)
	}
}

func TestPrepareLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0x03}, 0o644))

	prepared, err := Prepare(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prepared, "data:video/mp4;base64,"),
		"unrecognized content falls back to video/mp4, got %q", prepared)
}

func TestPrepareMissingFile(t *testing.T) {
	_, err := Prepare(filepath.Join(t.TempDir(), "missing.mp4"))
	assert.Error(t, err)
}

func TestFromBytesSniffsMimeType(t *testing.T) {
	// minimal mp4 ftyp box
	b := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
		0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'm', 'p', '4', '1'}

	url := FromBytes(b)
	assert.True(t, strings.HasPrefix(url, "data:video/mp4;base64,"), "got %q", url)
}
