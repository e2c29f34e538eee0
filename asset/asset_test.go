package asset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetChecksum(t *testing.T) {
	checksum, err := GetChecksum(strings.NewReader("graph TD;\n A-->B;"))
	require.NoError(t, err)
	assert.Len(t, checksum, 64)

	again, err := GetChecksum(strings.NewReader("graph TD;\n A-->B;"))
	require.NoError(t, err)
	assert.Equal(t, checksum, again)
}

func TestStore(t *testing.T) {
	store := NewStore("")

	a, err := New([]byte("a -> b"), ".png", []byte("png"), "10", "20")
	require.NoError(t, err)

	url := store.Attach(a)
	assert.Equal(t, "/assets/diagrams/"+a.Checksum+".png", url)

	// same diagram twice is stored once
	assert.Equal(t, url, store.Attach(a))
	assert.Len(t, store.Assets, 1)

	root := t.TempDir()
	require.NoError(t, store.Write(root))

	data, err := os.ReadFile(filepath.Join(root, "assets", "diagrams", a.Filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
}

func TestStoreBase(t *testing.T) {
	store := NewStore("docs")

	a, err := New([]byte("x"), ".svg", nil, "", "")
	require.NoError(t, err)

	assert.Equal(t, "/docs/assets/diagrams/"+a.Filename, store.Attach(a))
}
