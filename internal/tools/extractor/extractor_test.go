package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supported("notes.txt"))
	assert.True(t, r.Supported("README.md"))
	assert.True(t, r.Supported("report.DOCX"))
	assert.True(t, r.Supported("paper.pdf"))
	assert.True(t, r.Supported("data.json"))
	assert.False(t, r.Supported("archive.zip"))
	assert.False(t, r.Supported("binary"))
}

func TestExtractTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello knowledge base"), 0644))

	text, err := NewRegistry().ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "hello knowledge base", text)
}

func TestExtractUnknownExtensionYieldsEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0644))

	text, err := NewRegistry().ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewRegistry().ExtractFile(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	assert.Error(t, err)
}

func TestMarkdownExtractor(t *testing.T) {
	md := []byte("# Title\n\nSome *emphasized* text.\n\n- item one\n- item two\n")

	text, err := NewMarkdownExtractor().Extract(context.Background(), md)
	require.NoError(t, err)

	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Some emphasized text.")
	assert.Contains(t, text, "item one")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "<")
}

func TestJSONExtractor(t *testing.T) {
	t.Run("object is flattened", func(t *testing.T) {
		text, err := NewJSONExtractor().Extract(context.Background(),
			[]byte(`{"name":"alice","tags":["a","b"],"active":true}`))
		require.NoError(t, err)

		assert.Contains(t, text, "name: alice")
		assert.Contains(t, text, "[0]: a")
		assert.Contains(t, text, "active: true")
	})

	t.Run("scalar value passes through", func(t *testing.T) {
		text, err := NewJSONExtractor().Extract(context.Background(), []byte(`"just a string"`))
		require.NoError(t, err)
		assert.Equal(t, "just a string", text)
	})

	t.Run("invalid JSON fails", func(t *testing.T) {
		_, err := NewJSONExtractor().Extract(context.Background(), []byte(`{broken`))
		assert.Error(t, err)
	})
}
